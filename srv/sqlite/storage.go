package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"codestudio/common"
	"codestudio/srv"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	workspace_id TEXT NOT NULL,
	key TEXT NOT NULL,
	value BLOB NOT NULL,
	PRIMARY KEY (workspace_id, key)
);
`

type Storage struct {
	db *sql.DB
}

// NewStorage opens (and if needed creates) the kv database under the studio
// data home.
func NewStorage() (*Storage, error) {
	dataHome, err := common.GetStudioDataHome()
	if err != nil {
		return nil, fmt.Errorf("failed to get studio data home: %w", err)
	}
	client, err := NewClient(filepath.Join(dataHome, "studio.kv.db"))
	if err != nil {
		return nil, err
	}
	return NewStorageFromDb(client.db)
}

// NewStorageFromDb wraps an existing database handle, applying the schema.
func NewStorageFromDb(db *sql.DB) (*Storage, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply kv schema: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) CheckConnection(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) MGet(ctx context.Context, workspaceId string, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return [][]byte{}, nil
	}

	placeholders := make([]string, len(keys))
	args := make([]interface{}, len(keys)*2)
	for i, key := range keys {
		placeholders[i] = "(?, ?)"
		args[i*2] = workspaceId
		args[i*2+1] = key
	}

	query := fmt.Sprintf("SELECT key, value FROM kv WHERE (workspace_id, key) IN (%s)", strings.Join(placeholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query kv store: %w", err)
	}
	defer rows.Close()

	results := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	orderedResults := make([][]byte, len(keys))
	for i, key := range keys {
		orderedResults[i] = results[key]
	}

	return orderedResults, nil
}

func (s *Storage) MSet(ctx context.Context, workspaceId string, values map[string]interface{}) error {
	rawValues := make(map[string][]byte, len(values))
	for key, value := range values {
		jsonValue, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
		}
		rawValues[key] = jsonValue
	}
	return s.MSetRaw(ctx, workspaceId, rawValues)
}

func (s *Storage) MSetRaw(ctx context.Context, workspaceId string, values map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR REPLACE INTO kv (workspace_id, key, value) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for key, value := range values {
		if _, err := stmt.ExecContext(ctx, workspaceId, key, value); err != nil {
			return fmt.Errorf("failed to insert/update key %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *Storage) Delete(ctx context.Context, workspaceId string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := make([]string, len(keys))
	args := make([]interface{}, 0, len(keys)+1)
	args = append(args, workspaceId)
	for i, key := range keys {
		placeholders[i] = "?"
		args = append(args, key)
	}
	query := fmt.Sprintf("DELETE FROM kv WHERE workspace_id = ? AND key IN (%s)", strings.Join(placeholders, ","))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

func (s *Storage) DeletePrefix(ctx context.Context, workspaceId string, prefix string) error {
	query := "DELETE FROM kv WHERE workspace_id = ? AND key LIKE ? ESCAPE '\\'"
	if _, err := s.db.ExecContext(ctx, query, workspaceId, likeEscape(prefix)+"%"); err != nil {
		return fmt.Errorf("failed to delete keys with prefix %s: %w", prefix, err)
	}
	return nil
}

func (s *Storage) GetKeysWithPrefix(ctx context.Context, workspaceId string, prefix string) ([]string, error) {
	query := "SELECT key FROM kv WHERE workspace_id = ? AND key LIKE ? ESCAPE '\\' ORDER BY key"
	rows, err := s.db.QueryContext(ctx, query, workspaceId, likeEscape(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query keys with prefix %s: %w", prefix, err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// likeEscape neutralizes LIKE wildcards in a literal prefix.
func likeEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

var _ srv.Storage = (*Storage)(nil)
