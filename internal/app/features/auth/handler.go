// Package auth implements the /api/v1/auth endpoints: registration,
// login, logout, password reset, and the signed-in profile.
package auth

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	sysauth "github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/app/system/mailer"
	"github.com/dalemusser/dintask/internal/app/system/ratelimit"
)

const maxBody = 1 << 20

// Handler is the feature-level entry point for Auth.
type Handler struct {
	DB       *mongo.Database
	Users    *userstore.Store
	Tokens   *sysauth.Manager
	Mail     *mailer.Mailer
	Limiter  *ratelimit.LoginLimiter
	SiteName string
	BaseURL  string
	Log      *zap.Logger
}

// NewHandler constructs an Auth handler bound to its stores and services.
func NewHandler(db *mongo.Database, tokens *sysauth.Manager, mail *mailer.Mailer, siteName, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Users:    userstore.New(db),
		Tokens:   tokens,
		Mail:     mail,
		Limiter:  ratelimit.NewLoginLimiter(),
		SiteName: siteName,
		BaseURL:  baseURL,
		Log:      logger,
	}
}
