package api

import (
	"fmt"
	"time"

	"marketmatch/internal/timeseries"

	"github.com/gin-gonic/gin"
)

type marketPerformanceJson struct {
	Sp500Return float64 `json:"sp500Return"`
	TsxReturn   float64 `json:"tsxReturn"`
	AvgReturn   float64 `json:"avgReturn"`
}

type marketDataResponse struct {
	Sp500Data   map[string]float64    `json:"sp500Data"`
	TsxData     map[string]float64    `json:"tsxData"`
	Performance marketPerformanceJson `json:"performance"`
}

func (m ApiHandler) marketData(c *gin.Context) {
	summary, err := m.OptimizeHandler.Scoring.MarketSummary(c.Request.Context())
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to get market data: %w", err), c)
		return
	}

	c.JSON(200, marketDataResponse{
		Sp500Data: seriesToMap(summary.USIndex),
		TsxData:   seriesToMap(summary.CAIndex),
		Performance: marketPerformanceJson{
			Sp500Return: round4(summary.USReturn),
			TsxReturn:   round4(summary.CAReturn),
			AvgReturn:   round4(summary.AvgReturn),
		},
	})
}

func seriesToMap(s timeseries.Series) map[string]float64 {
	out := map[string]float64{}
	dates := s.Dates()
	values := s.Values()
	for i := range dates {
		out[dates[i].Format(time.DateOnly)] = values[i]
	}
	return out
}
