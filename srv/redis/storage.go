package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"codestudio/srv"
	"codestudio/utils"

	"github.com/redis/go-redis/v9"
)

type Storage struct {
	Client *redis.Client
}

func NewStorage() *Storage {
	return &Storage{Client: setupClient()}
}

func (s Storage) CheckConnection(ctx context.Context) error {
	_, err := s.Client.Ping(ctx).Result()
	return err
}

func (s Storage) MGet(ctx context.Context, workspaceId string, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return [][]byte{}, nil
	}
	prefixedKeys := utils.Map(keys, func(key string) string {
		return fmt.Sprintf("%s:%s", workspaceId, key)
	})
	values, err := s.Client.MGet(ctx, prefixedKeys...).Result()
	if err != nil {
		return nil, err
	}
	byteValues := utils.Map(values, func(value interface{}) []byte {
		if value == nil {
			return nil
		}
		return []byte(value.(string))
	})
	return byteValues, nil
}

func (s Storage) MSet(ctx context.Context, workspaceId string, values map[string]interface{}) error {
	rawValues := make(map[string][]byte, len(values))
	for key, value := range values {
		bytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("redis mset failed to marshal value: %w", err)
		}
		rawValues[key] = bytes
	}
	return s.MSetRaw(ctx, workspaceId, rawValues)
}

func (s Storage) MSetRaw(ctx context.Context, workspaceId string, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	prefixedValues := make(map[string]interface{}, len(values))
	for key, value := range values {
		prefixedValues[fmt.Sprintf("%s:%s", workspaceId, key)] = value
	}
	return s.Client.MSet(ctx, prefixedValues).Err()
}

func (s Storage) Delete(ctx context.Context, workspaceId string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixedKeys := utils.Map(keys, func(key string) string {
		return fmt.Sprintf("%s:%s", workspaceId, key)
	})
	return s.Client.Del(ctx, prefixedKeys...).Err()
}

func (s Storage) DeletePrefix(ctx context.Context, workspaceId string, prefix string) error {
	keys, err := s.scanPrefix(ctx, workspaceId, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	prefixedKeys := utils.Map(keys, func(key string) string {
		return fmt.Sprintf("%s:%s", workspaceId, key)
	})
	return s.Client.Del(ctx, prefixedKeys...).Err()
}

func (s Storage) GetKeysWithPrefix(ctx context.Context, workspaceId string, prefix string) ([]string, error) {
	return s.scanPrefix(ctx, workspaceId, prefix)
}

// scanPrefix walks the keyspace with SCAN, returning keys with the workspace
// prefix stripped off.
func (s Storage) scanPrefix(ctx context.Context, workspaceId string, prefix string) ([]string, error) {
	match := fmt.Sprintf("%s:%s*", workspaceId, globEscape(prefix))
	keyPrefix := fmt.Sprintf("%s:", workspaceId)

	keys := []string{}
	iter := s.Client.Scan(ctx, 0, match, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan failed for prefix %s: %w", prefix, err)
	}
	return keys, nil
}

// globEscape neutralizes glob wildcards in a literal prefix for SCAN MATCH.
func globEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}

var _ srv.Storage = Storage{}
