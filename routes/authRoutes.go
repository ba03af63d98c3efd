package routes

import (
	"agrimarket/auth"
	"agrimarket/middleware"
	"agrimarket/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register",
		middleware.Chain(rateLimiter.Limit)(auth.Register))
	router.POST("/api/auth/login",
		middleware.Chain(rateLimiter.Limit)(auth.Login))

	router.GET("/api/profile",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(auth.GetProfile))
	router.PUT("/api/profile",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(auth.UpdateProfile))
	router.POST("/api/profile/kyc",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(auth.SubmitKYCDocuments))
}
