package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/ziadkadry99/agenda-vta/internal/db"
)

// Provider computes the current dashboard counters.
type Provider interface {
	Current(ctx context.Context) (Stats, error)
}

// SQLProvider derives the counters from the clinic tables.
type SQLProvider struct {
	db  *db.DB
	now func() time.Time
}

// NewSQLProvider creates a provider over database.
func NewSQLProvider(database *db.DB) *SQLProvider {
	return &SQLProvider{db: database, now: time.Now}
}

const (
	consultasHojeQuery = `SELECT COUNT(*) FROM agendamentos
		WHERE data_agendamento = ? AND status <> 'cancelado'`

	salasOcupadasQuery = `SELECT COUNT(DISTINCT sala) FROM agendamentos
		WHERE data_agendamento = ? AND checkin_realizado = 1
		AND status NOT IN ('concluido', 'cancelado')`

	salasAtivasQuery = `SELECT COUNT(*) FROM salas WHERE status = 'ativo'`

	clientesAtivosQuery = `SELECT COUNT(*) FROM clientes
		WHERE status IS NULL OR status <> 'inativo'`
)

// Current implements Provider.
func (p *SQLProvider) Current(ctx context.Context) (Stats, error) {
	today := p.now().Format("2006-01-02")

	var consultas, ocupadas, ativas, clientes int
	if err := p.db.QueryRowContext(ctx, consultasHojeQuery, today).Scan(&consultas); err != nil {
		return Stats{}, fmt.Errorf("counting today's appointments: %w", err)
	}
	if err := p.db.QueryRowContext(ctx, salasOcupadasQuery, today).Scan(&ocupadas); err != nil {
		return Stats{}, fmt.Errorf("counting occupied rooms: %w", err)
	}
	if err := p.db.QueryRowContext(ctx, salasAtivasQuery).Scan(&ativas); err != nil {
		return Stats{}, fmt.Errorf("counting rooms: %w", err)
	}
	if err := p.db.QueryRowContext(ctx, clientesAtivosQuery).Scan(&clientes); err != nil {
		return Stats{}, fmt.Errorf("counting clients: %w", err)
	}

	disponiveis := ativas - ocupadas
	if disponiveis < 0 {
		disponiveis = 0
	}

	return Stats{
		ConsultasHoje:    Int(consultas),
		SalasDisponiveis: Int(disponiveis),
		SalasOcupadas:    Int(ocupadas),
		ClientesAtivos:   Int(clientes),
	}, nil
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (Stats, error)

// Current implements Provider.
func (f ProviderFunc) Current(ctx context.Context) (Stats, error) { return f(ctx) }
