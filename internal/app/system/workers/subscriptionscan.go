// internal/app/system/workers/subscriptionscan.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/mailer"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// reminderDays are how many days before expiry a reminder goes out.
// Day 0 also flips the admin's subscription status to expired.
var reminderDays = []int{3, 1, 0}

// AdminScanner is satisfied by the users store.
type AdminScanner interface {
	ListAdminsExpiringOn(ctx context.Context, dayStart, dayEnd time.Time) ([]models.User, error)
	MarkSubscriptionExpired(ctx context.Context, id primitive.ObjectID) error
}

// SubscriptionScan is a background worker that emails admins ahead of
// subscription expiry and marks lapsed subscriptions expired. The status
// flip is advisory: the request-path gate compares expiry dates directly,
// so access is correct even between scans.
type SubscriptionScan struct {
	users     AdminScanner
	mail      *mailer.Mailer
	log       *zap.Logger
	interval  time.Duration
	siteName  string
	renewLink string
	now       func() time.Time
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewSubscriptionScan creates the worker. Interval is how often to scan;
// once every 24h matches the reminder granularity, more often is harmless
// because each day's window is recomputed from the clock.
func NewSubscriptionScan(users AdminScanner, mail *mailer.Mailer, logger *zap.Logger, interval time.Duration, siteName, renewLink string) *SubscriptionScan {
	return &SubscriptionScan{
		users:     users,
		mail:      mail,
		log:       logger,
		interval:  interval,
		siteName:  siteName,
		renewLink: renewLink,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background scan loop with an immediate first pass.
func (w *SubscriptionScan) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("subscription scan worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *SubscriptionScan) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("subscription scan worker stopped")
}

func (w *SubscriptionScan) run() {
	defer w.wg.Done()

	w.Scan()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

// Scan runs one pass over the reminder windows.
func (w *SubscriptionScan) Scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	today := w.now().UTC().Truncate(24 * time.Hour)

	for _, days := range reminderDays {
		dayStart := today.Add(time.Duration(days) * 24 * time.Hour)
		dayEnd := dayStart.Add(24 * time.Hour)

		admins, err := w.users.ListAdminsExpiringOn(ctx, dayStart, dayEnd)
		if err != nil {
			w.log.Error("subscription scan query failed",
				zap.Int("days_left", days), zap.Error(err))
			continue
		}

		for _, admin := range admins {
			e := mailer.BuildExpiryReminderEmail(mailer.ExpiryReminderData{
				SiteName:  w.siteName,
				AdminName: admin.FullName,
				PlanName:  admin.PlanName,
				DaysLeft:  days,
				RenewLink: w.renewLink,
			})
			e.To = admin.Email
			if err := w.mail.Send(e); err != nil {
				w.log.Error("expiry reminder send failed",
					zap.String("admin", admin.ID.Hex()), zap.Error(err))
			}

			if days == 0 {
				if err := w.users.MarkSubscriptionExpired(ctx, admin.ID); err != nil {
					w.log.Error("mark subscription expired failed",
						zap.String("admin", admin.ID.Hex()), zap.Error(err))
				}
			}
		}

		if len(admins) > 0 {
			w.log.Info("subscription reminders sent",
				zap.Int("days_left", days), zap.Int("count", len(admins)))
		}
	}
}
