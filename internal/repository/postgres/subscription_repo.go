// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"grocer-service/internal/domain/subscription"
	xerrors "grocer-service/internal/pkg/errors"
	"grocer-service/internal/pkg/id"

	"github.com/jackc/pgx/v5"
)

type SubscriptionRepository struct {
	db Querier
}

func NewSubscriptionRepository(db Querier) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `s.id, s.user_id, s.product_id, s.quantity, s.interval_days,
	s.next_delivery_date, s.status, s.auto_renew, s.start_date, s.created_at, s.updated_at`

func scanSubscription(row pgx.Row, extra ...any) (*subscription.Subscription, error) {
	var s subscription.Subscription
	dest := []any{
		&s.ID, &s.UserID, &s.ProductID, &s.Quantity, &s.Interval,
		&s.NextDeliveryDate, &s.Status, &s.AutoRenew, &s.StartDate, &s.CreatedAt, &s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a subscription, assigning its ID when empty
func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	if s.ID == "" {
		s.ID = id.New()
	}

	query := `
		INSERT INTO subscriptions (
			id, user_id, product_id, quantity, interval_days,
			next_delivery_date, status, auto_renew, start_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.ID, s.UserID, s.ProductID, s.Quantity, s.Interval,
		s.NextDeliveryDate, s.Status, s.AutoRenew, s.StartDate,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// FindByID retrieves a subscription by ID
func (r *SubscriptionRepository) FindByID(ctx context.Context, subscriptionID string) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions s WHERE s.id = $1`

	s, err := scanSubscription(r.db.QueryRow(ctx, query, subscriptionID))
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription %s: %w", subscriptionID, notFound(err))
	}
	return s, nil
}

// FindDue returns active subscriptions whose next delivery date is at or
// before asOf, oldest first.
func (r *SubscriptionRepository) FindDue(ctx context.Context, asOf time.Time) ([]subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions s
		WHERE s.status = $1 AND s.next_delivery_date <= $2
		ORDER BY s.next_delivery_date, s.id
	`

	rows, err := r.db.Query(ctx, query, subscription.StatusActive, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query due subscriptions: %w", err)
	}
	defer rows.Close()

	due := []subscription.Subscription{}
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		due = append(due, *s)
	}

	return due, rows.Err()
}

// MarkRenewed moves the next delivery date of a subscription
func (r *SubscriptionRepository) MarkRenewed(ctx context.Context, subscriptionID string, next time.Time) error {
	query := `UPDATE subscriptions SET next_delivery_date = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, next, time.Now(), subscriptionID)
	if err != nil {
		return fmt.Errorf("failed to update next delivery date: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStatus sets the status and, when next is non-nil, the next delivery date
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, subscriptionID string, status subscription.Status, next *time.Time) error {
	query := `
		UPDATE subscriptions
		SET status = $1, next_delivery_date = COALESCE($2, next_delivery_date), updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(ctx, query, status, next, time.Now(), subscriptionID)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Update writes the user-editable fields of a subscription. The delivery
// date is only written when next is set; otherwise the stored value is kept
// and read back into s.
func (r *SubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription, next *time.Time) error {
	query := `
		UPDATE subscriptions
		SET quantity = $1, interval_days = $2, next_delivery_date = COALESCE($3, next_delivery_date),
		    status = $4, auto_renew = $5, updated_at = $6
		WHERE id = $7
		RETURNING next_delivery_date, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.Quantity, s.Interval, next, s.Status, s.AutoRenew, time.Now(), s.ID,
	).Scan(&s.NextDeliveryDate, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", notFound(err))
	}

	return nil
}

// Delete removes a subscription
func (r *SubscriptionRepository) Delete(ctx context.Context, subscriptionID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, subscriptionID)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ListDetails returns subscriptions joined with product and owner names,
// newest first. An empty userID lists every subscription.
func (r *SubscriptionRepository) ListDetails(ctx context.Context, userID string) ([]subscription.SubscriptionDetail, error) {
	query := `
		SELECT ` + subscriptionColumns + `, p.name, u.name, u.email
		FROM subscriptions s
		JOIN products p ON p.id = s.product_id
		JOIN users u ON u.id = s.user_id
		WHERE ($1::text = '' OR s.user_id = $1)
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	list := []subscription.SubscriptionDetail{}
	for rows.Next() {
		var d subscription.SubscriptionDetail
		s, err := scanSubscription(rows, &d.ProductName, &d.UserName, &d.UserEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		d.Subscription = *s
		list = append(list, d)
	}

	return list, rows.Err()
}

// CountActive returns the number of active subscriptions
func (r *SubscriptionRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE status = $1`, subscription.StatusActive).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return n, nil
}
