package app

import (
	"context"
	"fmt"

	"member-portal/internal/config"
	"member-portal/internal/db"
	"member-portal/internal/logger"
	"member-portal/internal/mongo"
	"member-portal/internal/redis"
	"member-portal/internal/users"
)

type Infra struct {
	Users users.Store
	Redis *redis.Client

	closers []func() error
}

func (i *Infra) Close() error {
	var first error
	for n := len(i.closers) - 1; n >= 0; n-- {
		if err := i.closers[n](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	store, err := setupUserStore(ctx, cfg, infra)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	infra.Users = store

	redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		_ = infra.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	infra.Redis = redisClient
	infra.closers = append(infra.closers, redisClient.Close)

	logger.Info("redis ready", map[string]any{
		"addr": cfg.RedisAddr,
	})

	return infra, nil
}

func setupUserStore(ctx context.Context, cfg config.Config, infra *Infra) (users.Store, error) {
	switch cfg.UserStore {
	case config.StorePostgres:
		pg, err := db.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		infra.closers = append(infra.closers, pg.Close)
		logger.Info("database ready", map[string]any{"store": cfg.UserStore})
		return users.NewPostgresStore(pg.DB), nil

	case config.StoreMongo:
		client, err := mongo.New(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		infra.closers = append(infra.closers, func() error {
			return client.Disconnect(context.Background())
		})
		coll, err := client.Users(ctx, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		logger.Info("database ready", map[string]any{
			"store":      cfg.UserStore,
			"database":   cfg.MongoDatabase,
			"collection": cfg.MongoCollection,
		})
		return users.NewMongoStore(coll), nil

	default:
		logger.Warn("using in-memory user store; accounts are lost on restart", nil)
		return users.NewMemStore(), nil
	}
}
