// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blackcar/internal/http/handlers"
	"blackcar/internal/http/middleware"
	"blackcar/internal/infra"
	"blackcar/internal/modules/pricing"
	"blackcar/internal/modules/quote"
	"blackcar/internal/service"
)

type RouterDeps struct {
	Quotes    *quote.Service
	Pricing   *pricing.Service
	RateBook  *pricing.Store
	Assistant *service.QuoteAssistant
	Verifier  infra.TokenVerifier
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	quoteHandler := handlers.NewQuoteHandler(deps.Quotes)
	r.POST("/api/quotes", quoteHandler.Create)
	r.GET("/api/quotes/:id", quoteHandler.Get)
	r.GET("/api/quotes/code/:code", quoteHandler.GetByCode)
	r.POST("/api/quotes/:id/finalize", quoteHandler.Finalize)

	pricingHandler := handlers.NewPricingHandler(deps.Pricing)
	r.POST("/api/pricing/estimate", pricingHandler.Estimate)

	assistantHandler := handlers.NewAssistantHandler(deps.Assistant)
	r.POST("/api/assistant/message", assistantHandler.Message)

	admin := r.Group("/api/admin")
	admin.Use(middleware.Auth(deps.Verifier), middleware.RequireRole("admin", deps.Verifier))
	rateBookHandler := handlers.NewRateBookHandler(deps.RateBook)
	admin.GET("/ratebook", rateBookHandler.Get)
	admin.POST("/ratebook/invalidate", rateBookHandler.Invalidate)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
