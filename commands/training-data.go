package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scottkelso/PoseidonML/pkg/classifier"
	"github.com/scottkelso/PoseidonML/pkg/dataset"
	"github.com/scottkelso/PoseidonML/resources"
	"github.com/scottkelso/PoseidonML/util"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "training-data",
		Usage:     "Build a training dataset from the captures found under a directory",
		ArgsUsage: "<capture directory>",
		Flags: []cli.Flag{
			configFlag,
			cli.StringFlag{
				Name:  "output, o",
				Usage: "Write the dataset to `FILE` instead of the configured output path",
			},
			cli.StringFlag{
				Name:  "summary, s",
				Usage: "Also write a JSON summary of the dataset to `FILE`",
			},
			noProgressFlag,
		},
		Action: buildTrainingData,
	}

	bootstrapCommands(command)
}

func buildTrainingData(c *cli.Context) error {
	dataDir := c.Args().Get(0)
	if dataDir == "" {
		return cli.NewExitError("Specify a capture directory", -1)
	}

	res, err := resources.InitResources(c.String("config"))
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	defer res.Close()

	output := c.String("output")
	if output == "" {
		output = res.Config.S.Dataset.OutputPath
	}
	if err := checkOutputDir(output); err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	res.Log.WithFields(log.Fields{
		"Module": "training-data",
		"path":   dataDir,
	}).Info("Getting captures")
	captures, err := util.FindFiles(dataDir, res.Config.S.Dataset.CaptureExtension)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	if len(captures) == 0 {
		return cli.NewExitError("No captures were found in "+dataDir, -1)
	}

	res.Log.WithFields(log.Fields{
		"Module": "training-data",
		"model":  res.Config.S.Classifier.ModelPath,
	}).Info("Loading model")
	clf, err := classifier.New(res.Config)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	assembler, err := dataset.NewAssembler(clf, res.Config, res.Log)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	if !c.Bool("no-progress") {
		assembler.WithProgress(os.Stderr)
	}

	data, err := assembler.Assemble(captures)
	if err != nil {
		if !errors.Is(err, dataset.ErrCapturesFailed) {
			return cli.NewExitError(err.Error(), -1)
		}
		res.Log.WithFields(log.Fields{
			"Module": "training-data",
		}).Warn(err)
	}

	if err := data.Write(output); err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	if summary := c.String("summary"); summary != "" {
		if err := data.WriteSummary(summary); err != nil {
			return cli.NewExitError(err.Error(), -1)
		}
	}

	res.Log.WithFields(log.Fields{
		"Module":   "training-data",
		"captures": len(data),
		"output":   output,
	}).Info("Wrote training data")
	return nil
}

// checkOutputDir makes sure the directory output is written to exists
// before any capture is processed
func checkOutputDir(output string) error {
	dir := filepath.Dir(output)
	exists, err := util.Exists(dir)
	if err != nil {
		return err
	}
	if !exists || !util.IsDir(dir) {
		return fmt.Errorf("output directory %s does not exist", dir)
	}
	return nil
}
