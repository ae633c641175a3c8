// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/dintask/internal/app/realtime"
	taskstore "github.com/dalemusser/dintask/internal/app/store/tasks"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/app/system/mailer"
	"github.com/dalemusser/dintask/internal/app/system/workers"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Long-lived pieces created at startup and torn down in Shutdown. The hub
// is also mounted by BuildHandler, which WAFFLE calls after Startup.
var (
	hub              *realtime.Hub
	subscriptionScan *workers.SubscriptionScan
	overdueScan      *workers.OverdueScan
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: the
// superadmin bootstrap, the websocket hub, and the background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	users := userstore.New(deps.DinTaskMongoDatabase)

	if err := ensureSuperAdmin(ctx, users, appCfg, logger); err != nil {
		return err
	}

	hub = realtime.NewHub(deps.RedisClient, logger)

	mail := mailer.New(appCfg.MailSMTPHost, appCfg.MailSMTPPort, appCfg.MailFrom, appCfg.MailSMTPPass, logger)

	renewLink := appCfg.BaseURL + "/billing"
	subscriptionScan = workers.NewSubscriptionScan(users, mail, logger, appCfg.SubscriptionScanInterval, appCfg.SiteName, renewLink)
	subscriptionScan.Start()

	overdueScan = workers.NewOverdueScan(taskstore.New(deps.DinTaskMongoDatabase), logger, appCfg.OverdueScanInterval)
	overdueScan.Start()

	return nil
}

// ensureSuperAdmin guarantees the configured superadmin account exists.
// An existing account with that email is promoted; a missing one is
// created with the configured initial password. Blank email skips the
// bootstrap entirely.
func ensureSuperAdmin(ctx context.Context, users *userstore.Store, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail == "" {
		logger.Info("no superadmin_email configured; skipping superadmin bootstrap")
		return nil
	}

	u, err := users.GetByEmail(ctx, appCfg.SuperAdminEmail)
	switch {
	case err == nil:
		if u.Role == models.RoleSuperAdmin {
			return nil
		}
		if err := users.PromoteToSuperAdmin(ctx, u.ID); err != nil {
			return fmt.Errorf("promote superadmin: %w", err)
		}
		logger.Info("promoted existing account to superadmin",
			zap.String("email", appCfg.SuperAdminEmail),
			zap.String("previous_role", u.Role))
		return nil

	case errors.Is(err, userstore.ErrNotFound):
		if appCfg.SuperAdminPassword == "" {
			return fmt.Errorf("superadmin_password is required to create superadmin account %s", appCfg.SuperAdminEmail)
		}
		hash, err := auth.HashPassword(appCfg.SuperAdminPassword)
		if err != nil {
			return fmt.Errorf("hash superadmin password: %w", err)
		}
		_, err = users.Create(ctx, models.User{
			FullName:     "Super Admin",
			Email:        appCfg.SuperAdminEmail,
			Role:         models.RoleSuperAdmin,
			Status:       models.UserStatusActive,
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("create superadmin: %w", err)
		}
		logger.Info("created superadmin account", zap.String("email", appCfg.SuperAdminEmail))
		return nil

	default:
		return fmt.Errorf("look up superadmin: %w", err)
	}
}
