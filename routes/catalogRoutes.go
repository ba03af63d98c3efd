package routes

import (
	"agrimarket/catalog"
	"agrimarket/middleware"
	"agrimarket/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddCatalogRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/products",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(catalog.BrowseProducts))
	router.GET("/api/products/:productid",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(catalog.GetProduct))

	router.POST("/api/products",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("supplier"))(catalog.CreateProduct))
	router.PUT("/api/products/:productid",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("supplier", "admin"))(catalog.UpdateProduct))
	router.DELETE("/api/products/:productid",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("supplier", "admin"))(catalog.DeleteProduct))
	router.POST("/api/products/:productid/image",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("supplier"))(catalog.UploadProductImage))

	router.GET("/api/supplier/products",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("supplier"))(catalog.GetSupplierProducts))
}
