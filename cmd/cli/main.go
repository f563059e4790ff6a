package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"marketmatch/internal/app"
	"marketmatch/internal/backtest"
	"marketmatch/internal/logger"
	"marketmatch/internal/marketdata"
	"marketmatch/internal/scoring"
	"marketmatch/internal/screener"
	"marketmatch/internal/sizing"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

type tickerRow struct {
	Ticker string `csv:"ticker"`
}

func main() {
	var (
		tickersCsv string
		numStocks  int
		budget     float64
	)

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run the full portfolio construction pipeline over a ticker CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(tickersCsv)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", tickersCsv, err)
			}
			defer f.Close()

			rows := []tickerRow{}
			if err := gocsv.UnmarshalFile(f, &rows); err != nil {
				return fmt.Errorf("failed to parse %s: %w", tickersCsv, err)
			}
			symbols := []string{}
			for _, row := range rows {
				if row.Ticker != "" {
					symbols = append(symbols, row.Ticker)
				}
			}

			gateway := marketdata.NewYahooGateway()
			handler := app.OptimizeHandler{
				Screener: screener.Handler{Gateway: gateway},
				Scoring:  scoring.Handler{Gateway: gateway},
				Sizing:   sizing.Handler{Gateway: gateway},
				Backtest: backtest.Handler{Gateway: gateway},
			}

			ctx := logger.AddToContext(context.Background(), logger.New())
			result, err := handler.Optimize(ctx, app.OptimizeInput{
				Symbols:   symbols,
				NumStocks: numStocks,
				Budget:    budget,
			})
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}
	optimizeCmd.Flags().StringVar(&tickersCsv, "tickers-csv", "", "CSV file with a 'ticker' column")
	optimizeCmd.Flags().IntVar(&numStocks, "num-stocks", app.DefaultNumStocks, "target portfolio size")
	optimizeCmd.Flags().Float64Var(&budget, "budget", app.DefaultBudget, "cash budget in CAD")
	if err := optimizeCmd.MarkFlagRequired("tickers-csv"); err != nil {
		panic(err)
	}

	rootCmd := &cobra.Command{Use: "marketmatch"}
	rootCmd.AddCommand(optimizeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
