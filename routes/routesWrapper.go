package routes

import (
	"agrimarket/messaging"
	"agrimarket/ratelim"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *messaging.Hub) {
	AddAuthRoutes(router, rateLimiter)
	AddCartRoutes(router, rateLimiter)
	AddCatalogRoutes(router, rateLimiter)
	AddOrderRoutes(router, rateLimiter)
	AddRFQRoutes(router, rateLimiter)
	AddMessagingRoutes(router, rateLimiter, hub)
	AddDisputeRoutes(router, rateLimiter)
	AddLogisticsRoutes(router, rateLimiter)
	AddPaymentRoutes(router, rateLimiter)
	AddInsightsRoutes(router, rateLimiter)
	AddAdminRoutes(router, rateLimiter)
}
