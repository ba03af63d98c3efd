package routes

import (
	"agrimarket/middleware"
	"agrimarket/payments"
	"agrimarket/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddPaymentRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/orders/:orderid/pay",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("buyer"))(payments.ProcessPayment))

	router.GET("/api/payments/exchange-rate",
		middleware.Chain(rateLimiter.Limit)(payments.GetExchangeRateHandler))
	router.GET("/api/payments/currencies",
		middleware.Chain(rateLimiter.Limit)(payments.GetSupportedCurrenciesHandler))

	router.POST("/api/orders/:orderid/escrow",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("buyer"))(payments.CreateEscrow))
	router.GET("/api/escrow/:escrowid",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(payments.GetEscrow))
	router.POST("/api/escrow/:escrowid/fund",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(payments.FundEscrow))
	router.POST("/api/escrow/:escrowid/release",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(payments.ReleaseEscrow))
	router.POST("/api/escrow/:escrowid/refund",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))(payments.RefundEscrow))

	router.POST("/api/orders/:orderid/assurance",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("buyer"))(payments.CreateTradeAssurance))
	router.POST("/api/assurance/:assuranceid/claim",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("buyer"))(payments.ClaimAssurance))
	router.POST("/api/assurance/:assuranceid/resolve",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))(payments.ResolveAssurance))
}
