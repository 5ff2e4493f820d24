package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/sefazor/integrations-backend/internal/config"
	"github.com/sefazor/integrations-backend/internal/handler"
	"github.com/sefazor/integrations-backend/internal/repository"
	"github.com/sefazor/integrations-backend/internal/router"
	"github.com/sefazor/integrations-backend/internal/service"
	"github.com/sefazor/integrations-backend/pkg/database"
	jwtPkg "github.com/sefazor/integrations-backend/pkg/jwt"
	"github.com/sefazor/integrations-backend/pkg/payment"
	"github.com/sefazor/integrations-backend/pkg/utils"
	"github.com/sefazor/integrations-backend/pkg/zapier"
)

func main() {
	// .env is optional; deployments inject the environment directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg := config.LoadConfig()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Supabase Postgres
	var prober service.Prober
	if cfg.Supabase.DatabaseURL != "" {
		db, err := database.NewDatabase(cfg.Supabase.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer database.Close(db)
		prober = repository.NewProbeRepository(db, cfg.Supabase.ProbeTable)
	} else {
		logger.Warn("SUPABASE_DB_URL is not set, connectivity probe will report a configuration error")
	}

	// Stripe
	var sessionProvider service.SessionProvider
	if cfg.Stripe.SecretKey != "" {
		if cfg.Stripe.APIVersion != stripe.APIVersion {
			logger.Warn("STRIPE_API_VERSION differs from the SDK pinned version, using the SDK version",
				zap.String("configured", cfg.Stripe.APIVersion),
				zap.String("sdk", stripe.APIVersion),
			)
		}
		sessionProvider = payment.NewStripeService(payment.StripeConfig{
			SecretKey: cfg.Stripe.SecretKey,
			BaseURL:   cfg.BaseURL,
		})
	} else {
		logger.Warn("STRIPE_SECRET_KEY is not set, payment sessions are disabled")
	}

	// Services
	connectivityService := service.NewConnectivityService(prober)
	zapierService := service.NewZapierService(
		cfg.Zapier.WebhookSecret,
		service.NopWebhookProcessor{},
		zapier.NewClient(cfg.Zapier.HookURL),
		logger,
	)
	billingService := service.NewBillingService(sessionProvider)
	stripeWebhookService := service.NewStripeWebhookService(cfg.Stripe.WebhookSecret, service.NopEventProcessor{}, logger)

	validator := utils.NewValidator()
	expose := cfg.Server.ExposeErrorDetails

	// Handlers
	handlers := router.Handlers{
		Supabase: handler.NewSupabaseHandler(connectivityService, expose, logger),
		Zapier:   handler.NewZapierHandler(zapierService, expose, logger),
		Payment:  handler.NewPaymentHandler(billingService, stripeWebhookService, validator, expose, logger),
	}

	app := router.New(handlers, router.Options{
		AllowOrigins: cfg.Server.AllowOrigins,
		RateLimitMax: cfg.Server.RateLimitMax,
		JWTSecret:    cfg.Supabase.JWTSecret,
		JWTIssuer:    jwtPkg.SupabaseIssuer(cfg.Supabase.URL),
		AccessLog:    true,
		Logger:       logger,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
