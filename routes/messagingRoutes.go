package routes

import (
	"agrimarket/messaging"
	"agrimarket/middleware"
	"agrimarket/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddMessagingRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *messaging.Hub) {
	router.POST("/api/messages",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(messaging.SendMessage))
	router.GET("/api/messages/conversations",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(messaging.GetConversations))
	router.GET("/api/messages/conversations/:userid",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(messaging.GetConversation))
	router.GET("/api/messages/unread",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(messaging.GetUnreadCount))

	router.GET("/ws/messages", middleware.OptionalAuth(messaging.WebSocketHandler(hub)))
}
