package notifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/agenda-vta/internal/db"
)

// ErrNotFound is returned when no notification has the requested id.
var ErrNotFound = errors.New("notification not found")

// ListFilter controls which notifications are returned by List.
type ListFilter struct {
	Tipo       Kind
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Store provides CRUD operations for notifications.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create inserts a new notification and returns it with its generated id
// and defaults filled in.
func (s *Store) Create(ctx context.Context, n Notification) (*Notification, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Tipo == "" {
		n.Tipo = KindInfo
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notificacoes (id, titulo, mensagem, tipo, lida)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.Titulo, n.Mensagem, string(n.Tipo), boolToInt(n.Lida),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting notification: %w", err)
	}
	return s.GetByID(ctx, n.ID)
}

// GetByID retrieves a single notification.
func (s *Store) GetByID(ctx context.Context, id string) (*Notification, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, titulo, mensagem, tipo, lida, created_at
		FROM notificacoes WHERE id = ?`, id)

	n, err := scanInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading notification: %w", err)
	}
	return n, nil
}

// List returns notifications matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Notification, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Tipo != "" {
		clauses = append(clauses, "tipo = ?")
		args = append(args, string(filter.Tipo))
	}
	if filter.UnreadOnly {
		clauses = append(clauses, "lida = 0")
	}

	query := "SELECT id, titulo, mensagem, tipo, lida, created_at FROM notificacoes"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		n, err := scanInto(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		result = append(result, *n)
	}
	return result, rows.Err()
}

// CountUnread returns the number of unread notifications.
func (s *Store) CountUnread(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notificacoes WHERE lida = 0").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead sets lida=1 for the given notification.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE notificacoes SET lida = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Notification, error) {
	var (
		n    Notification
		tipo string
		lida int
		ts   string
	)

	if err := sc.Scan(&n.ID, &n.Titulo, &n.Mensagem, &tipo, &lida, &ts); err != nil {
		return nil, err
	}

	n.Tipo = Kind(tipo)
	n.Lida = lida != 0

	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		n.CreatedAt = t
	} else if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
		n.CreatedAt = t
	}

	return &n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
