package renewal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"grocer-service/internal/domain/notification"
	"grocer-service/internal/domain/order"
	"grocer-service/internal/domain/product"
	"grocer-service/internal/domain/subscription"
	"grocer-service/internal/domain/user"
	xerrors "grocer-service/internal/pkg/errors"
)

// memStore is an in-memory stand-in for the postgres repositories.
type memStore struct {
	mu sync.Mutex

	subs     map[string]*subscription.Subscription
	products map[string]*product.Product
	users    map[string]*user.User
	orders   []*order.Order

	findDueErr     error
	orderErrFor    map[string]error // keyed by subscription ID
	updateErrFor   map[string]error // keyed by subscription ID
	userLookupErrs map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		subs:           map[string]*subscription.Subscription{},
		products:       map[string]*product.Product{},
		users:          map[string]*user.User{},
		orderErrFor:    map[string]error{},
		updateErrFor:   map[string]error{},
		userLookupErrs: map[string]error{},
	}
}

func (m *memStore) addSub(s subscription.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := s
	m.subs[s.ID] = &cp
}

func (m *memStore) sub(id string) subscription.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.subs[id]
}

func (m *memStore) ordersFor(subID string) []*order.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*order.Order
	for _, o := range m.orders {
		if o.SubscriptionID != nil && *o.SubscriptionID == subID {
			out = append(out, o)
		}
	}
	return out
}

func (m *memStore) FindDue(_ context.Context, asOf time.Time) ([]subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findDueErr != nil {
		return nil, m.findDueErr
	}
	var due []subscription.Subscription
	for _, s := range m.subs {
		if s.Status == subscription.StatusActive && !s.NextDeliveryDate.After(asOf) {
			due = append(due, *s)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	return due, nil
}

func (m *memStore) MarkRenewed(ctx context.Context, id string, next time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.updateErrFor[id]; err != nil {
		return err
	}
	s, ok := m.subs[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	s.NextDeliveryDate = next
	return nil
}

func (m *memStore) UpdateStatus(ctx context.Context, id string, status subscription.Status, next *time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.updateErrFor[id]; err != nil {
		return err
	}
	s, ok := m.subs[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	s.Status = status
	if next != nil {
		s.NextDeliveryDate = *next
	}
	return nil
}

type productStore struct{ *memStore }

func (p productStore) FindByID(_ context.Context, id string) (*product.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pr, ok := p.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, xerrors.ErrNotFound)
	}
	cp := *pr
	return &cp, nil
}

type userStore struct{ *memStore }

func (u userStore) FindByID(_ context.Context, id string) (*user.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.userLookupErrs[id]; err != nil {
		return nil, err
	}
	usr, ok := u.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, xerrors.ErrNotFound)
	}
	cp := *usr
	return &cp, nil
}

type orderStore struct{ *memStore }

func (o orderStore) Create(ctx context.Context, ord *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if ord.SubscriptionID != nil {
		if err := o.orderErrFor[*ord.SubscriptionID]; err != nil {
			return err
		}
	}
	ord.ID = fmt.Sprintf("order-%d", len(o.orders)+1)
	ord.Status = order.StatusPending
	o.orders = append(o.orders, ord)
	return nil
}

// cancelAfterCreate cancels the caller's context once an order is stored.
type cancelAfterCreate struct {
	orderStore
	cancel context.CancelFunc
}

func (c cancelAfterCreate) Create(ctx context.Context, ord *order.Order) error {
	err := c.orderStore.Create(ctx, ord)
	c.cancel()
	return err
}

// snapshotBarrier holds every FindDue caller until `parties` of them have
// read the due list, so concurrent runs share one snapshot.
type snapshotBarrier struct {
	*memStore
	arrived sync.WaitGroup
}

func newSnapshotBarrier(m *memStore, parties int) *snapshotBarrier {
	b := &snapshotBarrier{memStore: m}
	b.arrived.Add(parties)
	return b
}

func (b *snapshotBarrier) FindDue(ctx context.Context, asOf time.Time) ([]subscription.Subscription, error) {
	due, err := b.memStore.FindDue(ctx, asOf)
	b.arrived.Done()
	b.arrived.Wait()
	return due, err
}

type sentEvent struct {
	userID  string
	kind    notification.Kind
	payload map[string]interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) NotifyUser(_ context.Context, userID string, kind notification.Kind, payload map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{userID: userID, kind: kind, payload: payload})
}

var errBoom = errors.New("boom")
