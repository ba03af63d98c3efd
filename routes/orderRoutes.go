package routes

import (
	"agrimarket/middleware"
	"agrimarket/orders"
	"agrimarket/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/orders",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("buyer"))(orders.CreateOrder))

	router.GET("/api/orders",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(orders.GetMyOrders))
	router.GET("/api/supplier/orders",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("supplier"))(orders.GetSupplierOrders))
	router.GET("/api/orders/:orderid",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(orders.GetOrder))
	router.PUT("/api/orders/:orderid/status",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(orders.UpdateOrderStatus))
	router.GET("/api/orders/:orderid/receipt",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(orders.PrintReceipt))
}
