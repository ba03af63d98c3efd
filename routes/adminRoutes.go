package routes

import (
	"agrimarket/admin"
	"agrimarket/middleware"
	"agrimarket/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAdminRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	gate := middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))

	router.GET("/api/admin/kyc", gate(admin.ListKYCQueue))
	router.POST("/api/admin/kyc/:userid/approve", gate(admin.ApproveKYC))
	router.POST("/api/admin/kyc/:userid/reject", gate(admin.RejectKYC))

	router.GET("/api/admin/products/pending", gate(admin.ListPendingProducts))
	router.POST("/api/admin/products/:productid/approve", gate(admin.ApproveProduct))
	router.POST("/api/admin/products/:productid/reject", gate(admin.RejectProduct))

	router.PUT("/api/admin/users/:userid/role", gate(admin.UpdateUserRole))
	router.POST("/api/admin/users/:userid/deactivate", gate(admin.DeactivateUser))

	router.GET("/api/admin/stats", gate(admin.PlatformStats))
}
