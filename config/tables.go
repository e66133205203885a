package config

type (
	//TableCfg is the container for other table config sections
	TableCfg struct {
		Log   LogTableCfg
		Score ScoreTableCfg
	}

	//LogTableCfg contains the configuration for logging
	LogTableCfg struct {
		LogTable string `default:"logs"`
	}

	//ScoreTableCfg names the collections holding evaluation results
	ScoreTableCfg struct {
		ScoreTable string `default:"scores"`
		RunTable   string `default:"runs"`
	}
)
