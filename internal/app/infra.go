// internal/app/infra.go
package app

import (
	"context"
	"fmt"

	"grocer-service/internal/config"
	"grocer-service/internal/db"
	"grocer-service/internal/metrics"
	"grocer-service/internal/repository/postgres"
	"grocer-service/internal/service/catalog"
	notifyUsecase "grocer-service/internal/service/notification"
	"grocer-service/internal/service/renewal"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Infra holds the connections and repositories shared by every command.
type Infra struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client // nil when REDIS_ENABLED=false

	Products      *postgres.ProductRepository
	Users         *postgres.UserRepository
	Subscriptions *postgres.SubscriptionRepository
	Orders        *postgres.OrderRepository
}

// Connect opens PostgreSQL, applies the schema and, when enabled, Redis.
func Connect(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*Infra, error) {
	pool, err := db.ConnectDB(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to PostgreSQL")

	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	infra := &Infra{
		Pool:          pool,
		Products:      postgres.NewProductRepository(pool),
		Users:         postgres.NewUserRepository(pool),
		Subscriptions: postgres.NewSubscriptionRepository(pool),
		Orders:        postgres.NewOrderRepository(pool),
	}

	if cfg.RedisEnabled {
		client, err := db.NewRedisClient(ctx, db.RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
			PoolSize: 10,
		})
		if err != nil {
			pool.Close()
			return nil, err
		}
		infra.Redis = client
		logger.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))
	}

	return infra, nil
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	i.Pool.Close()
}

// Renewer builds the renewal job on top of the shared repositories.
func (i *Infra) Renewer(cfg config.AppConfig, notifier renewal.Notifier, m metrics.RenewalMetrics, logger *zap.Logger) *renewal.Renewer {
	return renewal.NewRenewer(
		i.Subscriptions,
		i.Products,
		i.Users,
		i.Orders,
		notifier,
		logger.Named("renewal"),
	).WithLocation(cfg.Location()).WithMetrics(m)
}

// BusPublisher returns the cross-process publisher: Redis when available,
// otherwise a publisher that only logs.
func (i *Infra) BusPublisher(logger *zap.Logger) notifyUsecase.Publisher {
	if i.Redis != nil {
		return notifyUsecase.NewRedisPublisher(i.Redis)
	}
	return notifyUsecase.NewLogPublisher(logger)
}

// SeedCatalog inserts the built-in products that are not in the store yet.
func (i *Infra) SeedCatalog(ctx context.Context, logger *zap.Logger) (int, error) {
	return catalog.NewCatalogService(i.Products, logger.Named("catalog")).SeedCatalog(ctx)
}
