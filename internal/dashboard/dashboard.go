package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/agenda-vta/internal/clinic"
	"github.com/ziadkadry99/agenda-vta/internal/stats"
)

// StatsPath is the statistics endpoint polled by the dashboard.
const StatsPath = "/api/dashboard/stats"

// Dashboard serves the statistics API, the client list and the live
// statistics feed.
type Dashboard struct {
	provider stats.Provider
	clinic   *clinic.Store
	board    *stats.Board
	hub      *Hub
}

// New creates a new Dashboard. board receives the values published on the
// websocket feed.
func New(provider stats.Provider, clinicStore *clinic.Store, board *stats.Board) *Dashboard {
	return &Dashboard{
		provider: provider,
		clinic:   clinicStore,
		board:    board,
		hub:      NewHub(),
	}
}

// Hub returns the websocket hub so pollers can publish board changes.
func (d *Dashboard) Hub() *Hub { return d.hub }

// Board returns the shared statistics board.
func (d *Dashboard) Board() *stats.Board { return d.board }

// RegisterPublicRoutes mounts the endpoints readable without a session.
func (d *Dashboard) RegisterPublicRoutes(r chi.Router) {
	r.Get(StatsPath, d.handleStats)
}

// RegisterRoutes mounts the endpoints that require a session.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/api/dashboard/board", d.handleBoard)
	r.Get("/api/clientes", d.handleClientes)
	r.Get("/ws/stats", d.handleWebSocket)
}
