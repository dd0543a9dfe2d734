package build

import (
	"fmt"
	"path/filepath"

	"github.com/blackwell-systems/marketbuild/internal/catalog"
	"github.com/blackwell-systems/marketbuild/internal/util"
	"github.com/spf13/afero"
)

// PreviousSuffix names the old output while a new one is swapped in.
const PreviousSuffix = ".previous"

// stagingDir is where a build writes before the swap.
func (b *Builder) stagingDir() string {
	return b.opts.OutputDir + ".staging-" + b.opts.BuildID
}

func (b *Builder) prepareStaging() (string, error) {
	dir := b.stagingDir()
	if err := b.fs.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("clearing staging dir: %w", err)
	}
	if err := util.EnsureDir(b.fs, dir); err != nil {
		return "", fmt.Errorf("creating staging dir: %w", err)
	}
	return dir, nil
}

// writeRecord writes the enriched copy of rec under dir.
func (b *Builder) writeRecord(dir string, rec *record, e catalog.Enrichment) error {
	data, err := catalog.Enrich(rec.raw, e)
	if err != nil {
		return fmt.Errorf("%s: %w", rec.canonical, err)
	}
	out := filepath.Join(dir, string(rec.category), rec.stem+".json")
	if err := util.WriteFileAtomic(b.fs, out, data); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}

// swap replaces the output directory with staging. The previous output is
// restored if the final rename fails.
func swap(fs afero.Fs, staging, output string) error {
	previous := output + PreviousSuffix
	if err := fs.RemoveAll(previous); err != nil {
		return fmt.Errorf("clearing %s: %w", previous, err)
	}
	hadOutput := util.Exists(fs, output)
	if hadOutput {
		if err := fs.Rename(output, previous); err != nil {
			return fmt.Errorf("moving old output aside: %w", err)
		}
	}
	if parent := filepath.Dir(output); parent != "." {
		if err := util.EnsureDir(fs, parent); err != nil {
			return err
		}
	}
	if err := fs.Rename(staging, output); err != nil {
		if hadOutput {
			_ = fs.Rename(previous, output)
		}
		return fmt.Errorf("moving new output into place: %w", err)
	}
	if hadOutput {
		if err := fs.RemoveAll(previous); err != nil {
			return fmt.Errorf("removing old output: %w", err)
		}
	}
	return nil
}
