package api

import (
	"github.com/gin-gonic/gin"
)

type filterStocksRequest struct {
	Tickers []string `json:"tickers"`
}

type filterStocksResponse struct {
	FilteredTickers []string        `json:"filteredTickers"`
	RemovedStocks   []rejectionJson `json:"removedStocks"`
	TotalFiltered   int             `json:"totalFiltered"`
	TotalRemoved    int             `json:"totalRemoved"`
}

func (m ApiHandler) filterStocks(c *gin.Context) {
	var requestBody filterStocksRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	kept, rejected, err := m.OptimizeHandler.Screener.Filter(c.Request.Context(), requestBody.Tickers)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	c.JSON(200, filterStocksResponse{
		FilteredTickers: kept,
		RemovedStocks:   toRejectionJson(rejected),
		TotalFiltered:   len(kept),
		TotalRemoved:    len(rejected),
	})
}
