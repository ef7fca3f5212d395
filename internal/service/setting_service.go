package service

import (
	"context"
	"time"

	"github.com/brightclass/brightclass-backend/internal/config"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const settingCacheTTL = 5 * time.Minute

// SettingService serves application settings through a Redis read-through
// cache. Writes invalidate the cached key so readers converge within one
// round trip.
type SettingService struct {
	settings *repository.SettingRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewSettingService creates a new SettingService.
func NewSettingService(settings *repository.SettingRepository, rdb *redis.Client, log zerolog.Logger) *SettingService {
	return &SettingService{
		settings: settings,
		rdb:      rdb,
		log:      log.With().Str("component", "setting_service").Logger(),
	}
}

// Get returns a setting value, preferring the cache. Cache failures fall
// through to the database.
func (s *SettingService) Get(ctx context.Context, key string) (string, error) {
	cacheKey := config.CacheKey.SettingKey(key)

	cached, err := s.rdb.Get(ctx, cacheKey).Result()
	if err == nil {
		return cached, nil
	}
	if err != redis.Nil {
		s.log.Warn().Err(err).Str("key", key).Msg("setting cache read")
	}

	setting, err := s.settings.GetByKey(ctx, key)
	if err != nil {
		return "", err
	}

	if err := s.rdb.Set(ctx, cacheKey, setting.Value, settingCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("setting cache write")
	}
	return setting.Value, nil
}

// GetAll returns every setting straight from the database.
func (s *SettingService) GetAll(ctx context.Context) ([]model.AppSetting, error) {
	return s.settings.GetAll(ctx)
}

// Set upserts a setting and invalidates its cache entry.
func (s *SettingService) Set(ctx context.Context, key, value string) error {
	if err := s.settings.Upsert(ctx, key, value); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, config.CacheKey.SettingKey(key)).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("setting cache invalidate")
	}
	return nil
}
