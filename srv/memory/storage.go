package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"codestudio/srv"
)

// Storage is an in-memory srv.Storage used for tests and for running without
// any external state.
type Storage struct {
	mu sync.RWMutex
	// workspaceId -> key -> value
	data map[string]map[string][]byte
}

func NewStorage() *Storage {
	return &Storage{data: make(map[string]map[string][]byte)}
}

func (s *Storage) CheckConnection(ctx context.Context) error {
	return nil
}

func (s *Storage) MGet(ctx context.Context, workspaceId string, keys []string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([][]byte, len(keys))
	ws := s.data[workspaceId]
	for i, key := range keys {
		if value, ok := ws[key]; ok {
			results[i] = append([]byte(nil), value...)
		}
	}
	return results, nil
}

func (s *Storage) MSet(ctx context.Context, workspaceId string, values map[string]interface{}) error {
	rawValues := make(map[string][]byte, len(values))
	for key, value := range values {
		bytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
		}
		rawValues[key] = bytes
	}
	return s.MSetRaw(ctx, workspaceId, rawValues)
}

func (s *Storage) MSetRaw(ctx context.Context, workspaceId string, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.data[workspaceId]
	if ws == nil {
		ws = make(map[string][]byte)
		s.data[workspaceId] = ws
	}
	for key, value := range values {
		ws[key] = append([]byte(nil), value...)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, workspaceId string, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.data[workspaceId], key)
	}
	return nil
}

func (s *Storage) DeletePrefix(ctx context.Context, workspaceId string, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.data[workspaceId] {
		if strings.HasPrefix(key, prefix) {
			delete(s.data[workspaceId], key)
		}
	}
	return nil
}

func (s *Storage) GetKeysWithPrefix(ctx context.Context, workspaceId string, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := []string{}
	for key := range s.data[workspaceId] {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

var _ srv.Storage = (*Storage)(nil)
