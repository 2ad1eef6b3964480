package clinic

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ziadkadry99/agenda-vta/internal/db"
)

// Store provides read access to the clinic tables.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// ActiveClients returns every client not marked inactive, ordered by name.
func (s *Store) ActiveClients(ctx context.Context) ([]Cliente, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nome, email, telefone, status FROM clientes
		WHERE status IS NULL OR status <> 'inativo'
		ORDER BY nome`)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer rows.Close()

	var out []Cliente
	for rows.Next() {
		var (
			c                       Cliente
			email, telefone, status sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Nome, &email, &telefone, &status); err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		c.Email = email.String
		c.Telefone = telefone.String
		c.Status = status.String
		if c.Status == "" {
			c.Status = "active"
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Rooms returns all rooms ordered by name.
func (s *Store) Rooms(ctx context.Context) ([]Sala, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nome, tipo, capacidade, status, observacoes FROM salas ORDER BY nome`)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer rows.Close()

	var out []Sala
	for rows.Next() {
		var (
			r                 Sala
			tipo, observacoes sql.NullString
			capacidade        sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Nome, &tipo, &capacidade, &r.Status, &observacoes); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		r.Tipo = tipo.String
		r.Capacidade = int(capacidade.Int64)
		r.Observacoes = observacoes.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// AppointmentsOn returns the appointments of one day ordered by time.
func (s *Store) AppointmentsOn(ctx context.Context, day time.Time) ([]Agendamento, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cliente, pet, sala, data_agendamento, horario, status, checkin_realizado
		FROM agendamentos WHERE data_agendamento = ?
		ORDER BY horario`, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer rows.Close()

	var out []Agendamento
	for rows.Next() {
		var (
			a       Agendamento
			data    string
			checkin int
		)
		if err := rows.Scan(&a.ID, &a.Cliente, &a.Pet, &a.Sala, &data, &a.Horario, &a.Status, &checkin); err != nil {
			return nil, fmt.Errorf("scanning appointment: %w", err)
		}
		a.Data = normalizeDate(data)
		a.CheckinRealizado = checkin != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

// normalizeDate trims the time part the driver adds to DATE columns.
func normalizeDate(v string) string {
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}
