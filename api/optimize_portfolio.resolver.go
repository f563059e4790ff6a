package api

import (
	"time"

	"marketmatch/internal/app"
	"marketmatch/internal/domain"

	"github.com/gin-gonic/gin"
)

type optimizePortfolioRequest struct {
	Tickers   []string `json:"tickers"`
	NumStocks int      `json:"numStocks"`
	Budget    float64  `json:"budget"`
}

type portfolioLineJson struct {
	Ticker   string  `json:"ticker"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Shares   float64 `json:"shares"`
	Value    float64 `json:"value"`
	Weight   float64 `json:"weight"`
	Rating   float64 `json:"rating"`
}

type portfolioSummaryJson struct {
	TotalValue      float64 `json:"totalValue"`
	TotalFees       float64 `json:"totalFees"`
	FinalValue      float64 `json:"finalValue"`
	PortfolioReturn float64 `json:"portfolioReturn"`
	TotalWeight     float64 `json:"totalWeight"`
	NumStocks       int     `json:"numStocks"`
}

type filteringResultsJson struct {
	RemovedStocks []rejectionJson `json:"removedStocks"`
	TotalFiltered int             `json:"totalFiltered"`
	TotalRemoved  int             `json:"totalRemoved"`
}

type backtestJson struct {
	Dates              []string  `json:"dates"`
	PortfolioIndex     []float64 `json:"portfolioIndex"`
	BenchmarkIndex     []float64 `json:"benchmarkIndex"`
	PortfolioReturnPct float64   `json:"portfolioReturnPct"`
	BenchmarkReturnPct float64   `json:"benchmarkReturnPct"`
	Correlation        float64   `json:"correlation"`
}

type optimizePortfolioResponse struct {
	Portfolio        []portfolioLineJson  `json:"portfolio"`
	Summary          portfolioSummaryJson `json:"summary"`
	FilteringResults filteringResultsJson `json:"filteringResults"`
	Backtest         *backtestJson        `json:"backtest,omitempty"`
	BacktestError    string               `json:"backtestError,omitempty"`
}

func (m ApiHandler) optimizePortfolio(c *gin.Context) {
	var requestBody optimizePortfolioRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	budget := requestBody.Budget
	if budget <= 0 {
		budget = app.DefaultBudget
	}

	result, err := m.OptimizeHandler.Optimize(c.Request.Context(), app.OptimizeInput{
		Symbols:   requestBody.Tickers,
		NumStocks: requestBody.NumStocks,
		Budget:    budget,
	})
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	lines := make([]portfolioLineJson, 0, len(result.Lines))
	totalValue := 0.0
	totalWeight := 0.0
	for _, l := range result.Lines {
		totalValue += l.Value
		totalWeight += l.WeightPct
		lines = append(lines, portfolioLineJson{
			Ticker:   l.Symbol,
			Price:    l.Price,
			Currency: l.Currency,
			Shares:   l.Shares,
			Value:    l.Value,
			Weight:   l.WeightPct,
			Rating:   l.Rating,
		})
	}

	c.JSON(200, optimizePortfolioResponse{
		Portfolio: lines,
		Summary: portfolioSummaryJson{
			TotalValue:      round2(totalValue),
			TotalFees:       round2(result.TotalFees),
			FinalValue:      round2(totalValue + result.TotalFees),
			PortfolioReturn: round4(100 * (totalValue + result.TotalFees - budget) / budget),
			TotalWeight:     round1(totalWeight),
			NumStocks:       len(lines),
		},
		FilteringResults: filteringResultsJson{
			RemovedStocks: toRejectionJson(result.Rejections),
			TotalFiltered: len(result.Kept),
			TotalRemoved:  len(result.Rejections),
		},
		Backtest:      toBacktestJson(result.Backtest),
		BacktestError: result.BacktestError,
	})
}

func toBacktestJson(r *domain.BacktestResult) *backtestJson {
	if r == nil {
		return nil
	}
	dates := make([]string, 0, len(r.Dates))
	for _, d := range r.Dates {
		dates = append(dates, d.Format(time.DateOnly))
	}
	return &backtestJson{
		Dates:              dates,
		PortfolioIndex:     r.PortfolioIndex,
		BenchmarkIndex:     r.BenchmarkIndex,
		PortfolioReturnPct: r.PortfolioReturnPct,
		BenchmarkReturnPct: r.BenchmarkReturnPct,
		Correlation:        r.Correlation,
	}
}
