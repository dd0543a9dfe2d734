package app

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for n := n / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Palette matching the fatih/color helpers above.
var (
	colorGreen = lipgloss.AdaptiveColor{Light: "#00AF00", Dark: "#00D700"}
	colorCyan  = lipgloss.AdaptiveColor{Light: "#00AFAF", Dark: "#00D7D7"}
	colorGray  = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}
)

var (
	styleTitle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleLabel = lipgloss.NewStyle().Foreground(colorGray)
	styleValue = lipgloss.NewStyle().Foreground(colorCyan)
	styleBox   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 2, 0, 1)
)
