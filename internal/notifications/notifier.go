package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"foodtracker/internal/logger"
	"foodtracker/internal/metrics"
	"foodtracker/internal/models"
)

// DefaultDaysAhead is how far ahead reminders look when no window is set.
const DefaultDaysAhead = 7

// RunResult summarises one reminder run.
type RunResult struct {
	Recipients int `json:"recipients"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}

// Notifier finds products that are about to expire, or already have, and
// e-mails each opted-in user a list of them.
type Notifier struct {
	db        *gorm.DB
	mailer    Mailer
	daysAhead int
	loc       *time.Location
	metrics   *metrics.Collector
	log       *zap.SugaredLogger
	now       func() time.Time
}

// NewNotifier creates a notifier. daysAhead <= 0 selects DefaultDaysAhead.
func NewNotifier(db *gorm.DB, mailer Mailer, daysAhead int, loc *time.Location, m *metrics.Collector) *Notifier {
	if daysAhead <= 0 {
		daysAhead = DefaultDaysAhead
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		db:        db,
		mailer:    mailer,
		daysAhead: daysAhead,
		loc:       loc,
		metrics:   m,
		log:       logger.Named("notifications"),
		now:       time.Now,
	}
}

// Run sends one reminder per user with notifications enabled who has at
// least one product left that expires within the window. A failed delivery
// is logged and counted; only storage errors abort the run.
func (n *Notifier) Run(ctx context.Context) (RunResult, error) {
	var result RunResult

	now := n.now().In(n.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	limit := today.AddDate(0, 0, n.daysAhead)

	var users []models.User
	if err := n.db.WithContext(ctx).
		Where("send_expiration_notifications = ? AND is_active = ?", true, true).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return result, fmt.Errorf("load users: %w", err)
	}

	for i := range users {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		user := &users[i]
		items, err := n.itemsFor(ctx, user.ID, today, limit)
		if err != nil {
			return result, err
		}
		if len(items) == 0 {
			continue
		}
		result.Recipients++

		msg, err := RenderReminder(user.Email, user.FirstName, items, now.Format("2006-01-02 15:04"))
		if err != nil {
			return result, err
		}

		if err := n.mailer.Send(ctx, msg); err != nil {
			result.Failed++
			n.metrics.ReminderSent(false)
			n.log.Errorw("failed to send expiration reminder", "user_id", user.ID, "error", err)
			continue
		}
		result.Sent++
		n.metrics.ReminderSent(true)
		n.log.Infow("expiration reminder sent", "user_id", user.ID, "products", len(items))
	}

	n.log.Infow("expiration check finished",
		"recipients", result.Recipients, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

func (n *Notifier) itemsFor(ctx context.Context, userID string, today, limit time.Time) ([]ReminderItem, error) {
	db := n.db.WithContext(ctx)

	var pantries []models.Pantry
	if err := db.Joins("JOIN pantry_members ON pantry_members.pantry_id = pantries.id").
		Where("pantry_members.user_id = ?", userID).
		Find(&pantries).Error; err != nil {
		return nil, fmt.Errorf("load pantries of %s: %w", userID, err)
	}
	if len(pantries) == 0 {
		return nil, nil
	}

	names := make(map[string]string, len(pantries))
	ids := make([]string, 0, len(pantries))
	for _, p := range pantries {
		names[p.ID] = p.Name
		ids = append(ids, p.ID)
	}

	var products []models.Product
	if err := db.Where("pantry_id IN ? AND current_amount > 0 AND expiration_date <= ?", ids, models.NewDate(limit)).
		Order("expiration_date ASC, name ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("load expiring products of %s: %w", userID, err)
	}

	items := make([]ReminderItem, 0, len(products))
	for i := range products {
		p := &products[i]
		exp := p.Expiration()
		items = append(items, ReminderItem{
			Name:           p.Name,
			PantryName:     names[p.PantryID],
			ExpirationDate: exp.Format(time.DateOnly),
			IsExpired:      !exp.After(today),
			Quantity:       p.CurrentAmount.String(),
			Unit:           strings.TrimSpace(string(p.Unit)),
		})
	}
	return items, nil
}
