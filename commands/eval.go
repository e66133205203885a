package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/scottkelso/PoseidonML/pkg/classifier"
	"github.com/scottkelso/PoseidonML/pkg/dataset"
	"github.com/scottkelso/PoseidonML/pkg/score"
	"github.com/scottkelso/PoseidonML/pkg/sequence"
	"github.com/scottkelso/PoseidonML/resources"
	"github.com/scottkelso/PoseidonML/util"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "eval",
		Usage:     "Score the sessions of a capture and print the highest score",
		ArgsUsage: "<capture>",
		Flags: []cli.Flag{
			configFlag,
			humanFlag,
			cli.BoolFlag{
				Name:  "all, a",
				Usage: "Print the score of every session",
			},
			delimFlag,
		},
		Action: evalCaptures,
	}

	bootstrapCommands(command)
}

func evalCaptures(c *cli.Context) error {
	target := c.Args().Get(0)
	if target == "" {
		return cli.NewExitError("Specify a capture", -1)
	}

	res, err := resources.InitResources(c.String("config"))
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	defer res.Close()

	captures, err := util.FindFiles(target, res.Config.S.Dataset.CaptureExtension)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	if len(captures) == 0 {
		return cli.NewExitError("No captures were found in "+target, -1)
	}

	clf, err := classifier.New(res.Config)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	assembler, err := dataset.NewAssembler(clf, res.Config, res.Log)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	model, err := sequence.New(res.Config)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	evaluator := score.NewEvaluator(assembler, model, res.Config, res.Log)
	records, err := evaluator.Evaluate(captures)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	summary := evaluator.Summary()
	if res.DB != nil {
		if err := storeScores(res, captures, records, summary.Max); err != nil {
			res.Log.WithFields(log.Fields{
				"Module": "eval",
				"error":  err.Error(),
			}).Error("Could not store scores")
		}
	}

	if c.Bool("human-readable") {
		return showScoresHuman(records, summary.Max)
	}
	if c.Bool("all") {
		return showScores(records, c.String("delimiter"))
	}
	fmt.Println(f(summary.Max))
	return nil
}

func storeScores(res *resources.Resources, captures []string, records []score.Record, maxScore float64) error {
	repo := score.NewMongoRepository(res.DB, res.Config, res.Log)
	if err := repo.CreateIndexes(); err != nil {
		return err
	}

	runID := uuid.New().String()
	if err := repo.Insert(runID, records); err != nil {
		return err
	}

	err := repo.InsertRun(score.RunInfo{
		RunID:    runID,
		Captures: captures,
		Sessions: len(records),
		MaxScore: maxScore,
		Version:  res.Config.S.ExactVersion,
	})
	if err != nil {
		return err
	}

	res.Log.WithFields(log.Fields{
		"Module": "eval",
		"run_id": runID,
	}).Info("Stored scores")
	return nil
}

func showScores(records []score.Record, delim string) error {
	headers := []string{"Index", "Capture", "Flow", "Score"}

	// Print the headers and analytic values, separated by a delimiter
	fmt.Println(strings.Join(headers, delim))
	for _, record := range records {
		fmt.Println(
			strings.Join(
				[]string{i(record.Index), record.Capture, record.Flow, record.Score},
				delim,
			),
		)
	}
	return nil
}

func showScoresHuman(records []score.Record, maxScore float64) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetColWidth(100)
	table.SetHeader([]string{"Index", "Capture", "Flow", "Score"})
	for _, record := range records {
		table.Append([]string{i(record.Index), record.Capture, record.Flow, record.Score})
	}
	table.SetFooter([]string{"", "", "Max", f(maxScore)})
	table.Render()
	return nil
}
