package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage()
	workspaceId := "test-workspace"

	t.Run("MSet and MGet preserve key order with nils for missing", func(t *testing.T) {
		err := storage.MSet(ctx, workspaceId, map[string]interface{}{
			"key1": "value1",
			"key2": 42,
		})
		require.NoError(t, err)

		results, err := storage.MGet(ctx, workspaceId, []string{"key2", "missing", "key1"})
		require.NoError(t, err)
		require.Len(t, results, 3)

		var val2 int
		require.NoError(t, json.Unmarshal(results[0], &val2))
		assert.Equal(t, 42, val2)
		assert.Nil(t, results[1])

		var val1 string
		require.NoError(t, json.Unmarshal(results[2], &val1))
		assert.Equal(t, "value1", val1)
	})

	t.Run("MSetRaw stores bytes verbatim", func(t *testing.T) {
		err := storage.MSetRaw(ctx, workspaceId, map[string][]byte{
			"raw": []byte(`{"a":1}`),
		})
		require.NoError(t, err)

		results, err := storage.MGet(ctx, workspaceId, []string{"raw"})
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), results[0])
	})

	t.Run("prefix operations", func(t *testing.T) {
		err := storage.MSet(ctx, workspaceId, map[string]interface{}{
			"entry:/src/":        "folder",
			"entry:/src/main.js": "file",
			"entry:/srcdir":      "file",
		})
		require.NoError(t, err)

		keys, err := storage.GetKeysWithPrefix(ctx, workspaceId, "entry:/src/")
		require.NoError(t, err)
		assert.Equal(t, []string{"entry:/src/", "entry:/src/main.js"}, keys)

		require.NoError(t, storage.DeletePrefix(ctx, workspaceId, "entry:/src/"))

		keys, err = storage.GetKeysWithPrefix(ctx, workspaceId, "entry:/")
		require.NoError(t, err)
		assert.Equal(t, []string{"entry:/srcdir"}, keys)
	})

	t.Run("Delete removes exact keys only", func(t *testing.T) {
		err := storage.MSet(ctx, workspaceId, map[string]interface{}{
			"entry:/main.js":     "file",
			"entry:/main.js.bak": "file",
		})
		require.NoError(t, err)

		require.NoError(t, storage.Delete(ctx, workspaceId, []string{"entry:/main.js"}))

		results, err := storage.MGet(ctx, workspaceId, []string{"entry:/main.js", "entry:/main.js.bak"})
		require.NoError(t, err)
		assert.Nil(t, results[0])
		assert.NotNil(t, results[1])
	})

	t.Run("workspace isolation", func(t *testing.T) {
		require.NoError(t, storage.MSet(ctx, "other", map[string]interface{}{"k": 1}))
		results, err := storage.MGet(ctx, workspaceId, []string{"k"})
		require.NoError(t, err)
		assert.Nil(t, results[0])
	})
}
