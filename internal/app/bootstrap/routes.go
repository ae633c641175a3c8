// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authfeature "github.com/dalemusser/dintask/internal/app/features/auth"
	billingfeature "github.com/dalemusser/dintask/internal/app/features/billing"
	chatfeature "github.com/dalemusser/dintask/internal/app/features/chat"
	contentfeature "github.com/dalemusser/dintask/internal/app/features/content"
	crmfeature "github.com/dalemusser/dintask/internal/app/features/crm"
	healthfeature "github.com/dalemusser/dintask/internal/app/features/health"
	invitefeature "github.com/dalemusser/dintask/internal/app/features/invite"
	membersfeature "github.com/dalemusser/dintask/internal/app/features/members"
	notificationsfeature "github.com/dalemusser/dintask/internal/app/features/notifications"
	projectsfeature "github.com/dalemusser/dintask/internal/app/features/projects"
	schedulesfeature "github.com/dalemusser/dintask/internal/app/features/schedules"
	superadminfeature "github.com/dalemusser/dintask/internal/app/features/superadmin"
	supportfeature "github.com/dalemusser/dintask/internal/app/features/support"
	tasksfeature "github.com/dalemusser/dintask/internal/app/features/tasks"
	teamsfeature "github.com/dalemusser/dintask/internal/app/features/teams"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/app/system/gateway"
	"github.com/dalemusser/dintask/internal/app/system/mailer"
	"github.com/dalemusser/dintask/internal/app/system/subscription"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so the websocket hub and workers already
// exist. DinTask is a JSON API: every request except /health and the public
// marketing endpoints goes through bearer-token auth, and member-role
// requests are additionally gated on the owning admin's subscription.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.DinTaskMongoDatabase
	users := userstore.New(db)

	// Token revocation uses Redis when available so logout survives restarts.
	var denylist auth.Denylist
	if deps.RedisClient != nil {
		denylist = auth.NewRedisDenylist(deps.RedisClient)
	} else {
		denylist = auth.NewMemoryDenylist()
	}
	tokens, err := auth.NewManager(appCfg.AuthSecret, appCfg.AuthTokenTTL, denylist)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	mail := mailer.New(appCfg.MailSMTPHost, appCfg.MailSMTPPort, appCfg.MailFrom, appCfg.MailSMTPPass, logger)

	var gw gateway.PaymentGateway
	if appCfg.PaymentProvider == "stripe" {
		gw = gateway.NewStripe(appCfg.StripeSecretKey, appCfg.StripeWebhookSecret)
	} else {
		logger.Warn("using fake payment gateway; payments will not charge anyone")
		gw = gateway.NewFake()
	}

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.DinTaskMongoClient, deps.RedisClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Built SPA bundle, with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Route("/api/v1", func(api chi.Router) {
		// Resolves the bearer token to a fresh user document on every
		// request, so role changes and disabled accounts take effect
		// immediately. Requests without a token pass through anonymous.
		api.Use(auth.LoadBearerUser(tokens, users, logger))

		// Blocks member-role requests once their workspace subscription
		// lapses. Admins pass so they can still reach billing to renew.
		api.Use(subscription.Gate(users, logger, nil))

		authHandler := authfeature.NewHandler(db, tokens, mail, appCfg.SiteName, appCfg.BaseURL, logger)
		api.Mount("/auth", authfeature.Routes(authHandler))

		membersHandler := membersfeature.NewHandler(db, logger)
		api.Mount("/members", membersfeature.Routes(membersHandler))

		inviteHandler := invitefeature.NewHandler(db, mail, appCfg.SiteName, appCfg.BaseURL, logger)
		api.Mount("/invite", invitefeature.Routes(inviteHandler))

		crmHandler := crmfeature.NewHandler(db, logger)
		api.Mount("/crm", crmfeature.Routes(crmHandler))
		api.Mount("/follow-ups", crmfeature.FollowUpRoutes(crmHandler))

		projectsHandler := projectsfeature.NewHandler(db, hub, logger)
		api.Mount("/projects", projectsfeature.Routes(projectsHandler))

		tasksHandler := tasksfeature.NewHandler(db, hub, logger)
		api.Mount("/tasks", tasksfeature.Routes(tasksHandler))

		teamsHandler := teamsfeature.NewHandler(db, logger)
		api.Mount("/teams", teamsfeature.Routes(teamsHandler))

		schedulesHandler := schedulesfeature.NewHandler(db, logger)
		api.Mount("/schedules", schedulesfeature.Routes(schedulesHandler))

		notificationsHandler := notificationsfeature.NewHandler(db, logger)
		api.Mount("/notifications", notificationsfeature.Routes(notificationsHandler))

		chatHandler := chatfeature.NewHandler(db, hub, logger)
		api.Mount("/chat", chatfeature.Routes(chatHandler))

		supportHandler := supportfeature.NewHandler(db, hub, logger)
		api.Mount("/support-tickets", supportfeature.Routes(supportHandler))
		api.Mount("/support", supportfeature.PublicRoutes(supportHandler))

		billingHandler := billingfeature.NewHandler(db, gw, mail, appCfg.SiteName, appCfg.BaseURL, logger)
		api.Mount("/payments", billingfeature.Routes(billingHandler))

		contentHandler := contentfeature.NewHandler(db, logger)
		api.Mount("/landing-page", contentfeature.LandingRoutes(contentHandler))
		api.Mount("/testimonials", contentfeature.TestimonialRoutes(contentHandler))

		superadminHandler := superadminfeature.NewHandler(db, logger)
		api.Mount("/admin", superadminfeature.Routes(superadminHandler))

		// Websocket upgrade; the hub reads the signed-in user from context.
		api.With(auth.RequireSignedIn).Get("/ws", hub.HandleWS)
	})

	return r, nil
}
