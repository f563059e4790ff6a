package main

import (
	"log"
	"os"

	"marketmatch/api"
	"marketmatch/internal/app"
	"marketmatch/internal/backtest"
	"marketmatch/internal/config"
	"marketmatch/internal/logger"
	"marketmatch/internal/marketdata"
	"marketmatch/internal/scoring"
	"marketmatch/internal/screener"
	"marketmatch/internal/sizing"
)

func main() {
	cfg := config.Default()
	if path := os.Getenv("MARKETMATCH_CONFIG"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			log.Fatal(err)
		}
	}

	gateway := marketdata.NewYahooGateway()
	handler := api.ApiHandler{
		Config: cfg,
		OptimizeHandler: app.OptimizeHandler{
			Screener: screener.Handler{Gateway: gateway},
			Scoring:  scoring.Handler{Gateway: gateway},
			Sizing:   sizing.Handler{Gateway: gateway},
			Backtest: backtest.Handler{Gateway: gateway},
		},
		Logger: logger.New(),
	}

	if err := handler.StartApi(); err != nil {
		log.Fatal(err)
	}
}
