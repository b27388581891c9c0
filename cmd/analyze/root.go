package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"FibSentinel/internal/config"
	"FibSentinel/internal/logger"
)

// rootConfig is shared by all subcommands once PersistentPreRunE has run.
type rootConfig struct {
	cfgPath  string
	provider string
	cfg      *config.Config
	log      *logger.Logger
}

func newRootCmd() *cobra.Command {
	rc := &rootConfig{}

	cmd := &cobra.Command{
		Use:   "fibsentinel",
		Short: "Fibonacci market-structure analysis for NSE/BSE stocks",
		Long: `fibsentinel fetches a year of daily candles for one instrument and reports
its 10-day SMA crossovers, swing structure, Fibonacci retracement levels and
a buy/sell/neutral recommendation with stop-loss and targets.

Examples:
  fibsentinel analyze RELIANCE.NS
  fibsentinel analyze TCS.NS --json --days 180
  fibsentinel symbols tata`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rc.load()
		},
	}

	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	cmd.PersistentFlags().StringVarP(&rc.cfgPath, "config", "c", defaultCfg, "path to YAML config")
	cmd.PersistentFlags().StringVar(&rc.provider, "provider", "", "data provider override (yahoo|fmp|mock)")

	cmd.AddCommand(
		newAnalyzeCmd(rc),
		newSymbolsCmd(rc),
		newVersionCmd(),
	)
	return cmd
}

func (rc *rootConfig) load() error {
	cfg, err := config.Load(rc.cfgPath)
	if err != nil {
		return err
	}
	if rc.provider != "" {
		cfg.DataSource.Provider = rc.provider
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Env); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	rc.cfg = cfg
	rc.log = logger.Get()
	return nil
}
