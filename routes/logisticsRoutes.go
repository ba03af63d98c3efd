package routes

import (
	"agrimarket/logistics"
	"agrimarket/middleware"
	"agrimarket/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddLogisticsRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/shipping/quote",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(logistics.CalculateShipping))
	router.POST("/api/shipping/quotes",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(logistics.GetMultipleQuotes))
	router.POST("/api/shipping/bulk-quote",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(logistics.GetBulkQuote))
	router.POST("/api/shipping/estimate",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(logistics.GetDeliveryEstimate))

	router.GET("/api/shipping/methods",
		middleware.Chain(rateLimiter.Limit)(logistics.GetShippingMethods))
	router.GET("/api/shipping/carriers",
		middleware.Chain(rateLimiter.Limit)(logistics.GetCarriers))
	router.GET("/api/shipping/customs",
		middleware.Chain(rateLimiter.Limit)(logistics.GetCustomsInfo))
	router.GET("/api/shipping/track/:trackingnumber",
		middleware.Chain(rateLimiter.Limit)(logistics.TrackShipment))
}
