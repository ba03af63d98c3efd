package routes

import (
	"agrimarket/cart"
	"agrimarket/middleware"
	"agrimarket/ratelim"

	"github.com/julienschmidt/httprouter"
)

// Cart routes accept either a logged-in user or an anonymous X-Cart-Token,
// so everything except merge runs under OptionalAuth.
func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/cart/token",
		middleware.Chain(rateLimiter.Limit)(cart.GetCartToken))

	router.GET("/api/cart",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(cart.GetCart))
	router.GET("/api/cart/summary",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(cart.CartSummaryHandler))
	router.POST("/api/cart/items",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(cart.AddToCart))
	router.PUT("/api/cart/items/:itemid",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(cart.UpdateCartItem))
	router.DELETE("/api/cart/items/:itemid",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(cart.RemoveCartItem))
	router.POST("/api/cart/items/:itemid/save",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(cart.SaveForLater))
	router.DELETE("/api/cart",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(cart.ClearCart))

	router.POST("/api/cart/merge",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(cart.MergeCartsHandler))
}
