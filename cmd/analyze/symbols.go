package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"FibSentinel/internal/collector"
)

func newSymbolsCmd(rc *rootConfig) *cobra.Command {
	var (
		file     string
		exchange string
	)

	cmd := &cobra.Command{
		Use:   "symbols [QUERY]",
		Short: "Search the NSE/BSE symbol list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = rc.cfg.DataSource.SymbolsFile
			}
			if file == "" {
				return fmt.Errorf("no symbol list: set --file or data_source.symbols_file")
			}
			list, err := collector.LoadSymbols(file)
			if err != nil {
				return err
			}

			matches := list.Symbols
			if exchange != "" {
				matches = list.ForExchange(exchange)
			}
			if len(args) == 1 {
				filtered := (&collector.SymbolList{Symbols: matches}).Search(args[0])
				matches = filtered
			}

			out := cmd.OutOrStdout()
			for _, s := range matches {
				fmt.Fprintf(out, "%-16s %-4s %s\n", s.Symbol, s.Exchange(), s.Name)
			}
			if len(matches) == 0 {
				fmt.Fprintf(out, "no symbols match %q\n", strings.Join(args, " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "symbol list JSON (defaults to data_source.symbols_file)")
	cmd.Flags().StringVarP(&exchange, "exchange", "e", "", "restrict to NSE or BSE")
	return cmd
}
