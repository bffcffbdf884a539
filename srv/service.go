package srv

import (
	"context"

	"codestudio/common"
)

// Storage is the persistence boundary for the workspace engine. The in-memory
// workspace store is the source of truth; storage holds a snapshot for reload,
// so writes are fire-and-forget from the caller's point of view.
type Storage interface {
	common.KeyValueStorage

	CheckConnection(ctx context.Context) error
}
