package main

import (
	"net/http"

	"monei-be/internal/checkout"
	"monei-be/internal/config"
	"monei-be/internal/db"
	"monei-be/internal/logger"
	"monei-be/internal/metrics"
	"monei-be/internal/middleware"
	"monei-be/internal/monei"
	"monei-be/internal/order"
	"monei-be/internal/payment"
	"monei-be/internal/payment/webhook"
	"monei-be/internal/token"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	orderRepo := order.NewRepository(database)
	paymentRepo := payment.NewRepository(database)
	tokenRepo := token.NewRepository(database)

	client := monei.NewClient(cfg.Monei.APIKey)

	checkoutSvc := checkout.NewService(orderRepo, paymentRepo, tokenRepo, client, cfg.Monei)
	checkoutHandler := checkout.NewHandler(checkoutSvc)

	reconciler := payment.NewReconciler(orderRepo, paymentRepo, tokenRepo, client, cfg.Monei)
	webhookHandler := webhook.NewHandler(reconciler, paymentRepo)

	refundHandler := payment.NewHandler(payment.NewRefunder(orderRepo, client))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/checkout/{orderID}", checkoutHandler.CreatePayment)
	mux.HandleFunc("GET /api/checkout/{orderID}/form", checkoutHandler.HostedForm)
	mux.Handle("POST /webhook/monei", webhookHandler)
	mux.Handle("POST /api/orders/{orderID}/refund",
		middleware.RequireAuth(cfg.JWTSecret, http.HandlerFunc(refundHandler.RefundOrder)))
	mux.Handle("GET /debug/metrics", metrics.Handler())

	handler := logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.RateLimitMiddleware(mux),
		),
	)

	addr := ":" + cfg.AppPort
	logger.L().Info("payment service listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
