package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

type tickerRow struct {
	Ticker string `csv:"ticker"`
}

type uploadCsvResponse struct {
	Tickers    []string `json:"tickers"`
	TotalCount int      `json:"totalCount"`
	Message    string   `json:"message"`
}

// uploadCsv extracts ticker symbols from an uploaded CSV. The file
// needs a "ticker" header column.
func (m ApiHandler) uploadCsv(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("no file uploaded: %w", err), c, 400)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to open upload: %w", err), c)
		return
	}
	defer file.Close()

	rows := []tickerRow{}
	if err := gocsv.Unmarshal(file, &rows); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse csv: %w", err), c, 400)
		return
	}

	tickers := []string{}
	for _, row := range rows {
		if row.Ticker != "" {
			tickers = append(tickers, row.Ticker)
		}
	}

	c.JSON(200, uploadCsvResponse{
		Tickers:    tickers,
		TotalCount: len(tickers),
		Message:    fmt.Sprintf("Successfully loaded %d tickers from CSV", len(tickers)),
	})
}
