package routes

import (
	"agrimarket/disputes"
	"agrimarket/middleware"
	"agrimarket/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddDisputeRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/disputes",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(disputes.OpenDispute))
	router.GET("/api/my/disputes",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(disputes.MyDisputes))
	router.GET("/api/disputes/:disputeid",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(disputes.GetDispute))
	router.POST("/api/disputes/:disputeid/close",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(disputes.CloseDispute))

	router.GET("/api/admin/disputes",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))(disputes.ListDisputes))
	router.POST("/api/admin/disputes/:disputeid/review",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))(disputes.ReviewDispute))
	router.POST("/api/admin/disputes/:disputeid/resolve",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))(disputes.ResolveDispute))
}
