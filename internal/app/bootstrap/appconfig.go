// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP/HTTPS ports,
// TLS, logging level, CORS, request body limits). AppConfig is everything
// specific to DinTask: database connection strings, the JWT signing
// secret, SMTP credentials, the payment gateway keys, and background
// worker intervals.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Redis, used for websocket offline mailboxes and token revocation.
	// Blank addr disables Redis; the app degrades to in-memory fallbacks.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Bearer token auth
	AuthSecret   string // JWT signing secret (must be strong in production)
	AuthTokenTTL time.Duration

	// Email/SMTP configuration. Blank host disables sending; emails are
	// logged instead.
	MailSMTPHost string
	MailSMTPPort string
	MailSMTPPass string
	MailFrom     string // From email address (e.g., noreply@dintask.com)

	// Payment gateway
	PaymentProvider     string // "stripe" or "fake"
	StripeSecretKey     string
	StripeWebhookSecret string

	// Base URL for links in emails (invite accept, invoice download,
	// renewal) and the public site name used in email subjects.
	BaseURL  string
	SiteName string

	// Background workers
	SubscriptionScanInterval time.Duration
	OverdueScanInterval      time.Duration

	// SuperAdmin bootstrap
	SuperAdminEmail    string // promotes/creates this account on startup
	SuperAdminPassword string // initial password when the account is created
}
