package redis

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

func newTestRedisStorage(t *testing.T) *Storage {
	db := &Storage{Client: NewTestRedisClient()}

	if err := db.CheckConnection(context.Background()); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	// Flush the database synchronously to ensure a clean state for each test
	if _, err := db.Client.FlushDB(context.Background()).Result(); err != nil {
		t.Fatalf("failed to flush redis database: %v", err)
	}

	return db
}

func NewTestRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     "localhost:6379",
		Password: "",
		DB:       1,
	})
}
