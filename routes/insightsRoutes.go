package routes

import (
	"agrimarket/insights"
	"agrimarket/middleware"
	"agrimarket/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddInsightsRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/insights/demand/:productid",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(insights.PredictDemand))
	router.GET("/api/insights/recommendations",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(insights.GetRecommendations))
	router.GET("/api/insights/keywords",
		middleware.Chain(rateLimiter.Limit)(insights.SuggestSearchKeywords))
}
