package data

import (
	"context"
	"errors"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/conf"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewTransaction,
	NewUserRepo,
	NewProfileRepo,
	NewCategoryRepo,
	NewMovieRepo,
	NewUpcomingMovieRepo,
	NewRatingRepo,
	NewReviewRepo,
	NewWatchlistRepo,
	NewEventPublisher,
)

const defaultCacheTTL = 15 * time.Minute

// Data encapsulates database and cache connections
type Data struct {
	db       *gorm.DB
	rdb      *redis.Client
	cacheTTL time.Duration
	log      *log.Helper
}

// NewData creates Data instance with database and Redis connections
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	l := log.NewHelper(logger)
	if c == nil || c.Database == nil || c.Database.Source == "" {
		return nil, nil, errors.New("data.database.source is required")
	}

	// Initialize PostgreSQL connection
	db, err := gorm.Open(postgres.Open(c.Database.Source), &gorm.Config{})
	if err != nil {
		l.Errorf("failed to connect to database: %v", err)
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		l.Errorf("failed to get database instance: %v", err)
		return nil, nil, err
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(orDefault(c.Database.MaxIdleConns, 10))
	sqlDB.SetMaxOpenConns(orDefault(c.Database.MaxOpenConns, 100))
	if lifetime := c.Database.ConnMaxLifetime.AsDuration(); lifetime > 0 {
		sqlDB.SetConnMaxLifetime(lifetime)
	} else {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	l.Info("database connected successfully")

	var (
		rdb *redis.Client
		ttl time.Duration
	)
	if c.Redis != nil && c.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:         c.Redis.Addr,
			Password:     c.Redis.Password,
			DB:           c.Redis.Db,
			ReadTimeout:  c.Redis.ReadTimeout.AsDuration(),
			WriteTimeout: c.Redis.WriteTimeout.AsDuration(),
		})
		ttl = c.Redis.CacheTtl.AsDuration()

		// Test Redis connection
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			l.Warnf("failed to connect to redis: %v", err)
			// Redis is optional, continue without it
			_ = rdb.Close()
			rdb = nil
		} else {
			l.Info("redis connected successfully")
		}
	}

	data := newData(db, rdb, ttl, logger)

	cleanup := func() {
		l.Info("closing data resources")
		if data.rdb != nil {
			if err := data.rdb.Close(); err != nil {
				l.Errorf("failed to close redis: %v", err)
			}
		}
		if err := sqlDB.Close(); err != nil {
			l.Errorf("failed to close database: %v", err)
		}
	}

	return data, cleanup, nil
}

func newData(db *gorm.DB, rdb *redis.Client, ttl time.Duration, logger log.Logger) *Data {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Data{
		db:       db,
		rdb:      rdb,
		cacheTTL: ttl,
		log:      log.NewHelper(logger),
	}
}

type contextTxKey struct{}

type txState struct {
	db          *gorm.DB
	afterCommit []func(context.Context)
}

// DB returns the transaction bound to ctx, or the pool.
func (d *Data) DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(contextTxKey{}).(*txState); ok {
		return tx.db.WithContext(ctx)
	}
	return d.db.WithContext(ctx)
}

// afterCommit defers fn until the transaction bound to ctx commits. Outside a
// transaction fn runs immediately. Cache and ranking writes go through here so
// readers never see them ahead of the rows.
func (d *Data) afterCommit(ctx context.Context, fn func(context.Context)) {
	if tx, ok := ctx.Value(contextTxKey{}).(*txState); ok {
		tx.afterCommit = append(tx.afterCommit, fn)
		return
	}
	fn(ctx)
}

type transaction struct {
	data *Data
}

// NewTransaction returns the biz.Transaction backed by gorm.
func NewTransaction(d *Data) biz.Transaction {
	return &transaction{data: d}
}

func (t *transaction) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(contextTxKey{}).(*txState); ok {
		return fn(ctx)
	}

	state := &txState{}
	err := t.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state.db = tx
		return fn(context.WithValue(ctx, contextTxKey{}, state))
	})
	if err != nil {
		return err
	}

	for _, hook := range state.afterCommit {
		hook(ctx)
	}
	return nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
