package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ziadkadry99/agenda-vta/internal/clinic"
)

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	s, err := d.provider.Current(r.Context())
	if err != nil {
		slog.Error("Failed to compute dashboard stats", "error", err, "component", "Dashboard")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, s)
}

func (d *Dashboard) handleBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, d.board.Snapshot())
}

func (d *Dashboard) handleClientes(w http.ResponseWriter, r *http.Request) {
	clientes, err := d.clinic.ActiveClients(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if clientes == nil {
		clientes = []clinic.Cliente{}
	}

	writeJSON(w, http.StatusOK, clientes)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
