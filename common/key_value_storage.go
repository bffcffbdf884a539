package common

import (
	"context"
)

// KeyValueStorage provides workspace-scoped key-value storage operations.
// This is the canonical interface; srv.Storage embeds common.KeyValueStorage.
// The prefix operations exist so that workspace cascade deletes and renames
// can be mirrored in the persisted snapshot without a full rewrite.
type KeyValueStorage interface {
	MGet(ctx context.Context, workspaceId string, keys []string) ([][]byte, error)
	MSet(ctx context.Context, workspaceId string, values map[string]interface{}) error
	MSetRaw(ctx context.Context, workspaceId string, values map[string][]byte) error
	Delete(ctx context.Context, workspaceId string, keys []string) error
	DeletePrefix(ctx context.Context, workspaceId string, prefix string) error
	GetKeysWithPrefix(ctx context.Context, workspaceId string, prefix string) ([]string, error)
}
