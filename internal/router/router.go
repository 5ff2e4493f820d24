package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sefazor/integrations-backend/internal/handler"
	"github.com/sefazor/integrations-backend/internal/middleware"
	"github.com/sefazor/integrations-backend/internal/models"
	"github.com/sefazor/integrations-backend/pkg/zapier"
)

type Handlers struct {
	Supabase *handler.SupabaseHandler
	Zapier   *handler.ZapierHandler
	Payment  *handler.PaymentHandler
}

type Options struct {
	AllowOrigins string
	RateLimitMax int // per IP on authenticated routes, 0 disables the limiter
	JWTSecret    string
	JWTIssuer    string // empty skips the iss check
	AccessLog    bool
	Logger       *zap.Logger
}

func New(h Handlers, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "integrations-backend",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				opts.Logger.Error("unhandled request error", zap.Error(err), zap.String("path", c.Path()))
			}
			return c.Status(code).JSON(models.MessageResponse{Message: utils.StatusMessage(code)})
		},
	})

	// Global Middleware'ler önce tanımlanmalı
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + zapier.SecretHeader + ", Stripe-Signature",
		AllowMethods: "GET, POST",
	}))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public routes
	api.Get("/supabase/test", h.Supabase.TestConnection)
	api.Get("/zapier/test", h.Zapier.TestConfig)
	api.Post("/zapier/webhook", h.Zapier.ReceiveWebhook)
	api.Post("/stripe/webhook", h.Payment.HandleStripeWebhook)

	// Protected routes. The chain is attached per route so unknown /api paths
	// still 404 and webhook deliveries from shared provider IPs are never
	// rate limited.
	protected := protectedChain(opts)
	api.Post("/zapier/send", withChain(protected, h.Zapier.SendWebhook)...)
	api.Post("/stripe/portal", withChain(protected, h.Payment.CreatePortalSession)...)
	api.Post("/stripe/checkout", withChain(protected, h.Payment.CreateCheckoutSession)...)

	return app
}

func protectedChain(opts Options) []fiber.Handler {
	var chain []fiber.Handler
	if opts.RateLimitMax > 0 {
		chain = append(chain, limiter.New(limiter.Config{
			Max:        opts.RateLimitMax,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
		}))
	}
	return append(chain, middleware.AuthMiddleware(opts.JWTSecret, opts.JWTIssuer, opts.Logger))
}

func withChain(chain []fiber.Handler, h fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(chain)+1)
	handlers = append(handlers, chain...)
	return append(handlers, h)
}
