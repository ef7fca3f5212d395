package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SettingKey returns the cache key for a platform setting value.
func (r *CacheKeyStruct) SettingKey(key string) string {
	return fmt.Sprintf("setting:%s", key)
}

// LoginAttemptsKey returns the rate-limit counter key for login attempts per IP.
func (r *CacheKeyStruct) LoginAttemptsKey(ip string) string {
	return fmt.Sprintf("login_attempts:%s", ip)
}

// EventChannel returns the Redis PubSub channel for identity integration events.
func (r *CacheKeyStruct) EventChannel() string {
	return "brightclass:events"
}

var CacheKey = NewCacheKeyStruct()
