package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ziadkadry99/agenda-vta/internal/db"
)

// SQLBackend stores client namespaces in the client_storage table.
type SQLBackend struct {
	db *db.DB
}

// NewSQLBackend creates a SQLBackend backed by the given database.
func NewSQLBackend(database *db.DB) *SQLBackend {
	return &SQLBackend{db: database}
}

// ForClient returns the storage namespace of clientID.
func (b *SQLBackend) ForClient(clientID string) Storage {
	return &SQLStorage{db: b.db, clientID: clientID}
}

// SQLStorage is a Storage bound to a single client id.
type SQLStorage struct {
	db       *db.DB
	clientID string
}

func (s *SQLStorage) GetItem(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM client_storage WHERE client_id = ? AND key = ?",
		s.clientID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLStorage) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_storage (client_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(client_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = datetime('now')`,
		s.clientID, key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *SQLStorage) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM client_storage WHERE client_id = ? AND key = ?",
		s.clientID, key,
	); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}
