package routes

import (
	"agrimarket/middleware"
	"agrimarket/ratelim"
	"agrimarket/rfq"

	"github.com/julienschmidt/httprouter"
)

func AddRFQRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/rfqs",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("buyer"))(rfq.CreateRFQ))
	router.GET("/api/my/rfqs",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(rfq.GetMyRFQs))
	router.GET("/api/rfqs",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(rfq.BrowseRFQs))
	router.GET("/api/rfqs/:rfqid",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(rfq.GetRFQ))
	router.POST("/api/rfqs/:rfqid/publish",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(rfq.PublishRFQ))
	router.POST("/api/rfqs/:rfqid/cancel",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(rfq.CancelRFQ))

	router.POST("/api/rfqs/:rfqid/responses",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("supplier"))(rfq.RespondToRFQ))
	router.GET("/api/rfqs/:rfqid/responses",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(rfq.GetRFQResponses))
	router.POST("/api/rfqs/:rfqid/award/:responseid",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("buyer"))(rfq.AwardRFQ))
}
