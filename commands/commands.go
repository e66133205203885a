package commands

import (
	"github.com/urfave/cli"
)

var (
	allCommands []cli.Command

	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "Use a given `CONFIG_FILE` when running this command",
		Value: "",
	}

	humanFlag = cli.BoolFlag{
		Name:  "human-readable, H",
		Usage: "Print a report instead of the bare result",
	}

	delimFlag = cli.StringFlag{
		Name:  "delimiter, d",
		Usage: "Print delimited output using `DELIM` between fields",
		Value: ",",
	}

	noProgressFlag = cli.BoolFlag{
		Name:  "no-progress",
		Usage: "Do not draw a progress bar on standard error",
	}
)

// bootstrapCommands adds commands to the list returned by Commands
func bootstrapCommands(commands ...cli.Command) {
	allCommands = append(allCommands, commands...)
}

// Commands provides all of the defined commands to the front end
func Commands() []cli.Command {
	return allCommands
}
