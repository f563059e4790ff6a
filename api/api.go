package api

import (
	"fmt"
	"math"
	"time"

	"marketmatch/internal/app"
	"marketmatch/internal/config"
	"marketmatch/internal/domain"
	"marketmatch/internal/logger"
	"marketmatch/internal/screener"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApiHandler struct {
	Config          *config.Config
	OptimizeHandler app.OptimizeHandler
	Logger          *zap.SugaredLogger
}

func (m ApiHandler) StartApi() error {
	router := gin.Default()
	router.Use(m.corsMiddleware())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to marketmatch"})
	})
	router.GET("/api/health", m.health)
	router.POST("/api/filterStocks", m.filterStocks)
	router.POST("/api/rateStocks", m.rateStocks)
	router.POST("/api/optimizePortfolio", m.optimizePortfolio)
	router.GET("/api/marketData", m.marketData)
	router.POST("/api/uploadCsv", m.uploadCsv)

	return router.Run(fmt.Sprintf(":%d", m.Config.Port))
}

func (m ApiHandler) corsMiddleware() gin.HandlerFunc {
	if len(m.Config.AllowedOrigins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = m.Config.AllowedOrigins
	return cors.New(cfg)
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, 500)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Error(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	requestID := uuid.New()
	log := m.Logger.With(
		"requestID", requestID.String(),
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
		"ip", ctx.ClientIP(),
	)
	ctx.Request = ctx.Request.WithContext(
		logger.AddToContext(ctx.Request.Context(), log),
	)

	start := time.Now().UTC()
	ctx.Next()

	log.Infow("request completed",
		"durationMs", time.Since(start).Milliseconds(),
		"statusCode", ctx.Writer.Status(),
	)
}

func (m ApiHandler) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy", "message": "MarketMatch API is running"})
}

type scoredCandidateJson struct {
	Ticker             string  `json:"ticker"`
	MarketValueScore   float64 `json:"marketValueScore"`
	ReturnsScore       float64 `json:"returnsScore"`
	TrackingErrorScore float64 `json:"trackingErrorScore"`
	Rating             float64 `json:"rating"`
	MarketCap          float64 `json:"marketCap"`
	MeanReturn         float64 `json:"meanReturn"`
	TrackingError      float64 `json:"trackingError"`
}

func toScoredCandidateJson(candidates []domain.ScoredCandidate) []scoredCandidateJson {
	out := make([]scoredCandidateJson, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, scoredCandidateJson{
			Ticker:             c.Symbol,
			MarketValueScore:   c.MarketValueScore,
			ReturnsScore:       c.ReturnsScore,
			TrackingErrorScore: c.TrackingErrorScore,
			Rating:             c.Rating,
			MarketCap:          c.MarketCap,
			MeanReturn:         c.MeanReturn,
			TrackingError:      c.TrackingError,
		})
	}
	return out
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

type rejectionJson struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

func toRejectionJson(rejections []screener.Rejection) []rejectionJson {
	out := make([]rejectionJson, 0, len(rejections))
	for _, r := range rejections {
		out = append(out, rejectionJson{Ticker: r.Symbol, Reason: r.Reason})
	}
	return out
}
