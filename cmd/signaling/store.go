package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mossy-p/meeting-signaling/config"
	"github.com/mossy-p/meeting-signaling/internal/mongo"
	"github.com/mossy-p/meeting-signaling/internal/redis"
	"github.com/mossy-p/meeting-signaling/internal/store"
)

// openStore connects the meeting record backend named by cfg.MeetingStore.
func openStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (store.MeetingStore, error) {
	switch cfg.MeetingStore {
	case config.StoreMemory, "":
		logger.Info().Msg("meeting records kept in memory")
		return store.NewMemStore(), nil

	case config.StoreRedis:
		rdb, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("addr", rdb.Options().Addr).Msg("redis connection established")
		return redis.NewMeetingStore(rdb, "meetings"), nil

	case config.StoreMongo:
		db, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		s := mongo.NewMeetingStore(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(context.Background())
			return nil, err
		}
		logger.Info().Str("database", cfg.Mongo.Database).Msg("mongo connection established")
		return s, nil
	}
	return nil, errors.Errorf("unknown meeting store %q", cfg.MeetingStore)
}
