package renewal

import (
	"context"
	"fmt"
	"time"

	"grocer-service/internal/domain/notification"
	"grocer-service/internal/domain/order"
	"grocer-service/internal/domain/subscription"
	"grocer-service/internal/metrics"
	xerrors "grocer-service/internal/pkg/errors"

	"go.uber.org/zap"
)

const (
	TriggerCron   = "cron"
	TriggerManual = "manual"
	TriggerCLI    = "cli"
)

// Report summarises one renewal run.
type Report struct {
	Trigger       string    `json:"trigger"`
	AsOf          time.Time `json:"as_of"`
	Due           int       `json:"due"`
	Renewed       int       `json:"renewed"`
	Cancelled     int       `json:"cancelled"`
	Failed        int       `json:"failed"`
	OrdersCreated []string  `json:"orders_created"`
	Duration      string    `json:"duration"`
}

// Renewer turns due subscriptions into orders and moves their schedules on.
//
// A run is not atomic per subscription: the order is written before the
// subscription is advanced, so a crash between the two writes leaves an
// order behind and the subscription is picked up again next run. Two runs
// that overlap can both renew the same subscription.
type Renewer struct {
	subs     SubscriptionStore
	products ProductStore
	users    UserStore
	orders   OrderStore
	notifier Notifier
	metrics  metrics.RenewalMetrics
	logger   *zap.Logger
	location *time.Location
	now      func() time.Time
}

func NewRenewer(
	subs SubscriptionStore,
	products ProductStore,
	users UserStore,
	orders OrderStore,
	notifier Notifier,
	logger *zap.Logger,
) *Renewer {
	return &Renewer{
		subs:     subs,
		products: products,
		users:    users,
		orders:   orders,
		notifier: notifier,
		metrics:  metrics.Nop(),
		logger:   logger,
		location: time.Local,
		now:      time.Now,
	}
}

// WithNow allows tests to inject a deterministic clock.
func (r *Renewer) WithNow(now func() time.Time) *Renewer {
	if now != nil {
		r.now = now
	}
	return r
}

// WithLocation sets the zone whose midnight decides what is due.
func (r *Renewer) WithLocation(loc *time.Location) *Renewer {
	if loc != nil {
		r.location = loc
	}
	return r
}

func (r *Renewer) WithMetrics(m metrics.RenewalMetrics) *Renewer {
	if m != nil {
		r.metrics = m
	}
	return r
}

// Run processes every due subscription. Errors are logged, never returned.
func (r *Renewer) Run(ctx context.Context) {
	if _, err := r.RunOnce(ctx, TriggerCron); err != nil {
		r.logger.Error("subscription renewal run failed", zap.Error(err))
	}
}

// RunOnce processes every due subscription and reports what happened. The
// error is only set when the due subscriptions could not be loaded; a
// failure on one subscription is counted in the report and does not stop
// the others.
//
// A run always completes: cancelling ctx does not stop it, since stopping
// between an order insert and the schedule update would leave the
// subscription due with its order already placed.
func (r *Renewer) RunOnce(ctx context.Context, trigger string) (*Report, error) {
	ctx = context.WithoutCancel(ctx)
	started := time.Now()
	asOf := startOfDay(r.now(), r.location)

	report := &Report{
		Trigger:       trigger,
		AsOf:          asOf,
		OrdersCreated: []string{},
	}

	due, err := r.subs.FindDue(ctx, asOf)
	if err != nil {
		r.metrics.ObserveRun(trigger, time.Since(started), err)
		return report, xerrors.Wrap(err, "failed to load due subscriptions")
	}

	report.Due = len(due)
	r.metrics.ObserveDue(len(due))
	r.logger.Info("subscription renewal started",
		zap.String("trigger", trigger),
		zap.Time("as_of", asOf),
		zap.Int("due", len(due)),
	)

	for i := range due {
		sub := &due[i]

		orderID, cancelled, err := r.renew(ctx, sub)
		if orderID != "" {
			report.OrdersCreated = append(report.OrdersCreated, orderID)
		}

		switch {
		case err != nil:
			report.Failed++
			r.metrics.IncOutcome("failed")
			r.logger.Error("failed to process subscription",
				zap.String("subscription_id", sub.ID),
				zap.String("order_id", orderID),
				zap.Error(err),
			)
		case cancelled:
			report.Cancelled++
			r.metrics.IncOutcome("cancelled")
			r.logger.Info("created final order for subscription",
				zap.String("subscription_id", sub.ID),
				zap.String("order_id", orderID),
			)
		default:
			report.Renewed++
			r.metrics.IncOutcome("renewed")
			r.logger.Info("created order for subscription",
				zap.String("subscription_id", sub.ID),
				zap.String("order_id", orderID),
			)
		}
	}

	elapsed := time.Since(started)
	report.Duration = elapsed.String()
	r.metrics.ObserveRun(trigger, elapsed, nil)

	r.logger.Info("subscription renewal finished",
		zap.String("trigger", trigger),
		zap.Int("due", report.Due),
		zap.Int("renewed", report.Renewed),
		zap.Int("cancelled", report.Cancelled),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}

// renew creates the order for one subscription and then advances or ends
// it. The returned order ID is set whenever the order was written, even if
// the subscription update afterwards failed.
func (r *Renewer) renew(ctx context.Context, sub *subscription.Subscription) (string, bool, error) {
	owner, err := r.users.FindByID(ctx, sub.UserID)
	if err != nil {
		return "", false, fmt.Errorf("load user %s: %w", sub.UserID, err)
	}

	item, err := r.products.FindByID(ctx, sub.ProductID)
	if err != nil {
		return "", false, fmt.Errorf("load product %s: %w", sub.ProductID, err)
	}

	subscriptionID := sub.ID
	o := order.New(owner.ID, []order.Item{{
		ProductID: item.ID,
		Quantity:  sub.Quantity,
		Price:     item.Price,
	}}, owner.ShippingAddress(), &subscriptionID)

	if err := r.orders.Create(ctx, o); err != nil {
		return "", false, xerrors.Wrap(err, "create order")
	}

	cancelled := !sub.AutoRenew
	if cancelled {
		err = r.subs.UpdateStatus(ctx, sub.ID, subscription.StatusCancelled, nil)
	} else {
		err = r.subs.MarkRenewed(ctx, sub.ID, sub.NextAfter(sub.NextDeliveryDate))
	}
	if err != nil {
		return o.ID, cancelled, fmt.Errorf("update subscription after order %s: %w", o.ID, err)
	}

	r.notifier.NotifyUser(ctx, sub.UserID, notification.KindSubscriptionOrderCreated, map[string]interface{}{
		"subscription_id": sub.ID,
		"order_id":        o.ID,
		"message":         fmt.Sprintf("Your subscription order has been created for %s", item.Name),
	})

	return o.ID, cancelled, nil
}

// startOfDay returns midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
