package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"FibSentinel/internal/collector"
	"FibSentinel/internal/model"
	"FibSentinel/internal/store"
	"FibSentinel/internal/strategy"
)

type analyzeOutput struct {
	Symbol   string          `json:"symbol"`
	Provider string          `json:"provider"`
	Candles  int             `json:"candles"`
	Analysis *model.Analysis `json:"analysis"`
}

func newAnalyzeCmd(rc *rootConfig) *cobra.Command {
	var (
		asJSON  bool
		days    int
		noCache bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Fetch daily candles and print the Fibonacci structure report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rc.cfg
			symbol := cfg.DataSource.Symbol
			if len(args) == 1 {
				symbol = strings.ToUpper(args[0])
			}
			if days <= 0 {
				days = cfg.DataSource.Days
			}

			var cache store.CandleStore
			if cfg.Cache.SQLitePath != "" && !noCache {
				s, err := store.NewSQLiteStore(cfg.Cache.SQLitePath, rc.log)
				if err != nil {
					rc.log.Warnf("candle cache disabled: %v", err)
				} else {
					cache = s
					defer s.Close()
				}
			}

			base, err := collector.NewFetcher(cfg.DataSource.Provider, cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
			if err != nil {
				return err
			}
			fetcher := collector.Chain(base, cfg.DataSource.Retries, cache, cfg.Cache.TTL, rc.log)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			series, err := collector.NewCollector(fetcher, days, rc.log).Collect(ctx, symbol)
			if err != nil {
				return err
			}

			a := strategy.Analyze(series.Candles, series.CurrentPrice, strategy.Options{
				SMAPeriod:     cfg.Analysis.SMAPeriod,
				SwingLookback: cfg.Analysis.SwingLookback,
				PreviousCount: cfg.Analysis.PreviousCount,
				RSIPeriod:     cfg.Analysis.RSIPeriod,
				Currency:      cfg.Analysis.Currency,
			})

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(analyzeOutput{
					Symbol:   symbol,
					Provider: fetcher.Name(),
					Candles:  len(series.Candles),
					Analysis: a,
				})
			}
			writeText(out, symbol, len(series.Candles), a, cfg.Analysis.Currency)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full analysis as JSON")
	cmd.Flags().IntVar(&days, "days", 0, "calendar days of history (defaults to data_source.days)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the candle cache")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall fetch timeout")
	return cmd
}

func writeText(w io.Writer, symbol string, candles int, a *model.Analysis, cur string) {
	price := func(v float64) string { return cur + humanize.FormatFloat("#,###.##", v) }

	fmt.Fprintf(w, "%s (%d daily candles)\n\n", symbol, candles)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if a.LastClose != nil {
		fmt.Fprintf(tw, "Last close\t%s\n", price(*a.LastClose))
	}
	if a.CurrentPrice != nil {
		fmt.Fprintf(tw, "Live price\t%s\n", price(*a.CurrentPrice))
	}
	if n := len(a.SMA.Points); n > 0 {
		fmt.Fprintf(tw, "SMA(%d)\t%s\t%d crossovers\n", a.SMA.Period, price(a.SMA.Points[n-1].Value), len(a.SMA.Signals))
	}
	if a.RSI != nil {
		fmt.Fprintf(tw, "RSI\t%.1f\n", *a.RSI)
	}
	fmt.Fprintf(tw, "Swings\t%d highs\t%d lows\n", len(a.Swings.Highs), len(a.Swings.Lows))
	if s := a.Structure; s != nil {
		fmt.Fprintf(tw, "Structure\t%s\t%s → %s\t%s\n", s.Type, price(s.Bottom), price(s.Top), s.Breakout)
		for _, r := range model.FibRatios {
			fmt.Fprintf(tw, "  Fib %s\t%s\n", model.FibKey(r), price(s.Levels.At(r)))
		}
	}
	if o := a.OverallRetracement; o != nil {
		fmt.Fprintf(tw, "Overall range\t%s → %s\t0.5 at %s\n", price(o.LowestLow), price(o.HighestHigh), price(o.Fib05))
	}
	fmt.Fprintf(tw, "Previous structures\t%d\n", len(a.PreviousStructures))
	tw.Flush()

	fmt.Fprintf(w, "\nRecommendation: %s\n%s\n", strings.ToUpper(string(a.TradeReport.Type)), a.TradeReport.Narrative)
	if len(a.Issues) > 0 {
		issues := make([]string, len(a.Issues))
		for i, is := range a.Issues {
			issues[i] = string(is)
		}
		fmt.Fprintf(w, "\nIssues: %s\n", strings.Join(issues, ", "))
	}
}
