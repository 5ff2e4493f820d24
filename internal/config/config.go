package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v74"
)

type ServerConfig struct {
	Port               string
	Env                string
	AllowOrigins       string
	RateLimitMax       int
	ExposeErrorDetails bool
}

type SupabaseConfig struct {
	URL         string
	DatabaseURL string // service role connection string, used for the connectivity probe
	ProbeTable  string
	JWTSecret   string
}

type ZapierConfig struct {
	WebhookSecret string
	HookURL       string
}

type StripeConfig struct {
	SecretKey     string
	APIVersion    string
	WebhookSecret string
}

type Config struct {
	Server   ServerConfig
	BaseURL  string
	Supabase SupabaseConfig
	Zapier   ZapierConfig
	Stripe   StripeConfig
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LoadConfig reads the process environment. Missing credentials are left
// empty; the operations that need them report a configuration error.
func LoadConfig() *Config {
	cfg := &Config{}

	cfg.Server.Port = getenv("PORT", "8080")
	cfg.Server.Env = getenv("APP_ENV", "development")
	cfg.Server.AllowOrigins = getenv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	cfg.Server.RateLimitMax = getenvInt("RATE_LIMIT_MAX", 20)
	cfg.Server.ExposeErrorDetails = getenvBool("EXPOSE_ERROR_DETAILS", true)

	cfg.BaseURL = strings.TrimRight(getenv("BASE_URL", "http://localhost:3000"), "/")

	cfg.Supabase.URL = os.Getenv("SUPABASE_URL")
	cfg.Supabase.DatabaseURL = os.Getenv("SUPABASE_DB_URL")
	cfg.Supabase.ProbeTable = getenv("SUPABASE_PROBE_TABLE", "users")
	cfg.Supabase.JWTSecret = os.Getenv("SUPABASE_JWT_SECRET")

	cfg.Zapier.WebhookSecret = os.Getenv("ZAPIER_WEBHOOK_SECRET")
	cfg.Zapier.HookURL = os.Getenv("ZAPIER_WEBHOOK_URL")

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.APIVersion = getenv("STRIPE_API_VERSION", stripe.APIVersion)
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	return cfg
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getenvBool(k string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}
