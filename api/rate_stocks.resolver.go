package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

type rateStocksRequest struct {
	Tickers []string `json:"tickers"`
}

type rateStocksResponse struct {
	Ratings     []scoredCandidateJson `json:"ratings"`
	TotalStocks int                   `json:"totalStocks"`
}

func (m ApiHandler) rateStocks(c *gin.Context) {
	var requestBody rateStocksRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if len(requestBody.Tickers) == 0 {
		returnErrorJsonCode(fmt.Errorf("no symbols provided"), c, 400)
		return
	}

	candidates, err := m.OptimizeHandler.Scoring.Score(c.Request.Context(), requestBody.Tickers)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to rate symbols: %w", err), c)
		return
	}

	c.JSON(200, rateStocksResponse{
		Ratings:     toScoredCandidateJson(candidates),
		TotalStocks: len(candidates),
	})
}
