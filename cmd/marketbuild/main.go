package main

import "github.com/blackwell-systems/marketbuild/internal/app"

// version is set via ldflags at release time.
var version = "dev"

func main() {
	app.SetVersion(version)
	app.Execute()
}
