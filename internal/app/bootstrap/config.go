// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for DinTask.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_secret, etc.
//   - Environment variables: DINTASK_MONGO_URI, DINTASK_AUTH_SECRET, etc.
//   - Command-line flags: --mongo_uri, --auth_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "dintask", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Redis (optional)
	{Name: "redis_addr", Default: "", Desc: "Redis address (blank disables Redis-backed features)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},

	// Auth
	{Name: "auth_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "JWT signing secret (must be strong in production)"},
	{Name: "auth_token_ttl", Default: "24h", Desc: "Bearer token lifetime (e.g., 24h, 30m)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank disables email sending)"},
	{Name: "mail_smtp_port", Default: "587", Desc: "SMTP server port"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@dintask.com", Desc: "From email address"},

	// Payment gateway
	{Name: "payment_provider", Default: "fake", Desc: "Payment gateway: 'stripe' or 'fake' (local development)"},
	{Name: "stripe_secret_key", Default: "", Desc: "Stripe API secret key"},
	{Name: "stripe_webhook_secret", Default: "", Desc: "Stripe webhook signing secret"},

	// Links and branding
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for links in emails"},
	{Name: "site_name", Default: "DinTask", Desc: "Site name used in email subjects and invoices"},

	// Background workers
	{Name: "subscription_scan_interval", Default: "24h", Desc: "How often to scan for expiring subscriptions"},
	{Name: "overdue_scan_interval", Default: "15m", Desc: "How often to mark past-deadline tasks overdue"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the superadmin user (promotes/creates on startup)"},
	{Name: "superadmin_password", Default: "", Desc: "Initial password when the superadmin account is created"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, DINTASK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DINTASK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),

		AuthSecret:   appValues.String("auth_secret"),
		AuthTokenTTL: appValues.Duration("auth_token_ttl", 24*time.Hour),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.String("mail_smtp_port"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),

		PaymentProvider:     appValues.String("payment_provider"),
		StripeSecretKey:     appValues.String("stripe_secret_key"),
		StripeWebhookSecret: appValues.String("stripe_webhook_secret"),

		BaseURL:  appValues.String("base_url"),
		SiteName: appValues.String("site_name"),

		SubscriptionScanInterval: appValues.Duration("subscription_scan_interval", 24*time.Hour),
		OverdueScanInterval:      appValues.Duration("overdue_scan_interval", 15*time.Minute),

		SuperAdminEmail:    appValues.String("superadmin_email"),
		SuperAdminPassword: appValues.String("superadmin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// DinTask validates the MongoDB URI format and the payment gateway
// selection early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.PaymentProvider {
	case "fake":
	case "stripe":
		if appCfg.StripeSecretKey == "" || appCfg.StripeWebhookSecret == "" {
			return fmt.Errorf("payment_provider 'stripe' requires stripe_secret_key and stripe_webhook_secret")
		}
	default:
		return fmt.Errorf("unknown payment_provider %q (want 'stripe' or 'fake')", appCfg.PaymentProvider)
	}

	if coreCfg.Env == "prod" && appCfg.AuthSecret == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("auth_secret must be changed from the development default in production")
	}

	return nil
}
