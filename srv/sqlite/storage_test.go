package sqlite

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMGetAndMSet(t *testing.T) {
	ctx := context.Background()
	storage := NewTestSqliteStorage(t)
	workspaceId := "test-workspace"

	t.Run("MSet and MGet single key-value pair", func(t *testing.T) {
		err := storage.MSet(ctx, workspaceId, map[string]interface{}{
			"key1": "value1",
		})
		require.NoError(t, err)

		results, err := storage.MGet(ctx, workspaceId, []string{"key1"})
		require.NoError(t, err)

		assert.Len(t, results, 1)
		var val1 string
		require.NoError(t, json.Unmarshal(results[0], &val1))
		assert.Equal(t, "value1", val1)
	})

	t.Run("MSet and MGet multiple key-value pairs", func(t *testing.T) {
		err := storage.MSet(ctx, workspaceId, map[string]interface{}{
			"key2": 42,
			"key3": true,
		})
		require.NoError(t, err)

		results, err := storage.MGet(ctx, workspaceId, []string{"key2", "key3"})
		require.NoError(t, err)
		assert.Len(t, results, 2)

		var val2 int
		var val3 bool
		require.NoError(t, json.Unmarshal(results[0], &val2))
		require.NoError(t, json.Unmarshal(results[1], &val3))
		assert.Equal(t, 42, val2)
		assert.Equal(t, true, val3)
	})

	t.Run("MGet non-existent keys", func(t *testing.T) {
		results, err := storage.MGet(ctx, workspaceId, []string{"non-existent"})
		require.NoError(t, err)
		assert.Equal(t, [][]byte{nil}, results)
	})

	t.Run("MGet mixed existing and non-existent keys", func(t *testing.T) {
		results, err := storage.MGet(ctx, workspaceId, []string{"key3", "non-existent", "key2"})
		require.NoError(t, err)
		assert.Len(t, results, 3)

		var val3 bool
		require.NoError(t, json.Unmarshal(results[0], &val3))
		assert.Equal(t, true, val3)

		assert.Nil(t, results[1])

		var val2 int
		require.NoError(t, json.Unmarshal(results[2], &val2))
		assert.Equal(t, 42, val2)
	})

	t.Run("MSet with empty input", func(t *testing.T) {
		err := storage.MSet(ctx, workspaceId, map[string]interface{}{})
		require.NoError(t, err)
	})

	t.Run("MGet with empty input", func(t *testing.T) {
		results, err := storage.MGet(ctx, workspaceId, []string{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("values are scoped per workspace", func(t *testing.T) {
		err := storage.MSet(ctx, "other-workspace", map[string]interface{}{
			"key1": "other",
		})
		require.NoError(t, err)

		results, err := storage.MGet(ctx, workspaceId, []string{"key1"})
		require.NoError(t, err)
		var val1 string
		require.NoError(t, json.Unmarshal(results[0], &val1))
		assert.Equal(t, "value1", val1)
	})
}

func TestMSetRaw(t *testing.T) {
	ctx := context.Background()
	storage := NewTestSqliteStorage(t)
	workspaceId := "test-workspace"

	err := storage.MSetRaw(ctx, workspaceId, map[string][]byte{
		"raw1": []byte(`{"already":"encoded"}`),
	})
	require.NoError(t, err)

	results, err := storage.MGet(ctx, workspaceId, []string{"raw1"})
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"already":"encoded"}`), results[0])
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	storage := NewTestSqliteStorage(t)
	workspaceId := "test-workspace"

	require.NoError(t, storage.MSet(ctx, workspaceId, map[string]interface{}{
		"entry:/main.js":     "file",
		"entry:/main.js.bak": "file",
	}))

	require.NoError(t, storage.Delete(ctx, workspaceId, []string{"entry:/main.js"}))

	results, err := storage.MGet(ctx, workspaceId, []string{"entry:/main.js", "entry:/main.js.bak"})
	require.NoError(t, err)
	assert.Nil(t, results[0])
	assert.NotNil(t, results[1])

	require.NoError(t, storage.Delete(ctx, workspaceId, []string{}))
}

func TestPrefixOperations(t *testing.T) {
	ctx := context.Background()
	storage := NewTestSqliteStorage(t)
	workspaceId := "test-workspace"

	seed := map[string]interface{}{
		"entry:/src/":        "folder",
		"entry:/src/main.js": "file",
		"entry:/src/app.js":  "file",
		"entry:/srcdir":      "file",
		"entry:/readme.md":   "file",
	}
	require.NoError(t, storage.MSet(ctx, workspaceId, seed))

	t.Run("GetKeysWithPrefix returns sorted matches", func(t *testing.T) {
		keys, err := storage.GetKeysWithPrefix(ctx, workspaceId, "entry:/src/")
		require.NoError(t, err)
		assert.Equal(t, []string{"entry:/src/", "entry:/src/app.js", "entry:/src/main.js"}, keys)
	})

	t.Run("GetKeysWithPrefix with no matches", func(t *testing.T) {
		keys, err := storage.GetKeysWithPrefix(ctx, workspaceId, "entry:/missing/")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("prefix containing LIKE wildcards is treated literally", func(t *testing.T) {
		require.NoError(t, storage.MSet(ctx, workspaceId, map[string]interface{}{
			"entry:/notes_v2.md": "file",
			"entry:/notesXv2.md": "file",
		}))

		keys, err := storage.GetKeysWithPrefix(ctx, workspaceId, "entry:/notes_")
		require.NoError(t, err)
		assert.Equal(t, []string{"entry:/notes_v2.md"}, keys)
	})

	t.Run("DeletePrefix removes only matching keys", func(t *testing.T) {
		err := storage.DeletePrefix(ctx, workspaceId, "entry:/src/")
		require.NoError(t, err)

		keys, err := storage.GetKeysWithPrefix(ctx, workspaceId, "entry:/")
		require.NoError(t, err)
		assert.Contains(t, keys, "entry:/srcdir")
		assert.Contains(t, keys, "entry:/readme.md")
		assert.NotContains(t, keys, "entry:/src/")
		assert.NotContains(t, keys, "entry:/src/main.js")
	})

	t.Run("DeletePrefix is scoped per workspace", func(t *testing.T) {
		require.NoError(t, storage.MSet(ctx, "other-workspace", map[string]interface{}{
			"entry:/readme.md": "other",
		}))
		require.NoError(t, storage.DeletePrefix(ctx, "other-workspace", "entry:/"))

		keys, err := storage.GetKeysWithPrefix(ctx, workspaceId, "entry:/readme.md")
		require.NoError(t, err)
		assert.Equal(t, []string{"entry:/readme.md"}, keys)
	})
}
