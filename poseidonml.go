package main

import (
	"os"
	"runtime"

	"github.com/scottkelso/PoseidonML/commands"
	"github.com/scottkelso/PoseidonML/config"
	"github.com/urfave/cli"
)

// Entry point of PoseidonML
func main() {
	app := cli.NewApp()
	app.Name = "poseidonml"
	app.Usage = "Pair network sessions with device representations and score them."

	// Change the version string with updates so that a quick help command will
	// let the testers know what version they're on
	app.Version = config.Version

	// Define commands used with this application
	app.Commands = commands.Commands()

	runtime.GOMAXPROCS(runtime.NumCPU())
	app.Run(os.Args)
}
