package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/agenda-vta/internal/clinic"
	"github.com/ziadkadry99/agenda-vta/internal/db"
	"github.com/ziadkadry99/agenda-vta/internal/stats"
)

func setupTest(t *testing.T, provider stats.Provider) (*Dashboard, *db.DB) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if provider == nil {
		provider = stats.NewSQLProvider(database)
	}
	d := New(provider, clinic.NewStore(database), stats.NewBoard())
	return d, database
}

func setupRouter(d *Dashboard) chi.Router {
	r := chi.NewRouter()
	d.RegisterPublicRoutes(r)
	d.RegisterRoutes(r)
	return r
}

func TestStatsEndpoint(t *testing.T) {
	d, database := setupTest(t, nil)
	r := setupRouter(d)
	ctx := t.Context()

	today := time.Now().Format("2006-01-02")
	database.ExecContext(ctx, `INSERT INTO clientes (nome) VALUES ('Ana'), ('Bruno')`)
	database.ExecContext(ctx, `INSERT INTO agendamentos (cliente, pet, sala, data_agendamento, horario, checkin_realizado)
		VALUES ('Ana', 'Rex', 'Consultório 1', ?, '09:00', 1)`, today)

	req := httptest.NewRequest(http.MethodGet, StatsPath, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var payload map[string]int
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}

	want := map[string]int{
		"consultas_hoje":    1,
		"salas_ocupadas":    1,
		"salas_disponiveis": 3,
		"clientes_ativos":   2,
	}
	for k, v := range want {
		if payload[k] != v {
			t.Errorf("%s = %d, want %d", k, payload[k], v)
		}
	}
}

func TestStatsEndpointError(t *testing.T) {
	d, _ := setupTest(t, stats.ProviderFunc(func(context.Context) (stats.Stats, error) {
		return stats.Stats{}, errors.New("boom")
	}))
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, StatsPath, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestClientesEndpoint(t *testing.T) {
	d, database := setupTest(t, nil)
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/api/clientes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("empty list body = %s", w.Body.String())
	}

	database.ExecContext(t.Context(), `INSERT INTO clientes (nome, status) VALUES ('Zeca', 'active'), ('Bia', 'inativo')`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var clientes []clinic.Cliente
	if err := json.NewDecoder(w.Body).Decode(&clientes); err != nil {
		t.Fatalf("decoding clients: %v", err)
	}
	if len(clientes) != 1 || clientes[0].Nome != "Zeca" {
		t.Errorf("clientes = %+v", clientes)
	}
}

func TestBoardEndpoint(t *testing.T) {
	d, _ := setupTest(t, nil)
	r := setupRouter(d)
	d.Board().Apply(stats.Stats{ConsultasHoje: stats.Int(4)})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/board", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var snap map[string]string
	json.NewDecoder(w.Body).Decode(&snap)
	if snap[stats.SlotConsultasHoje] != "4" {
		t.Errorf("snapshot = %v", snap)
	}
}

func dialFeed(t *testing.T, d *Dashboard) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(setupRouter(d))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/stats"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	return conn
}

func TestWebSocketSnapshot(t *testing.T) {
	d, _ := setupTest(t, nil)
	d.Board().Apply(stats.Stats{ClientesAtivos: stats.Int(7)})

	conn := dialFeed(t, d)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg feedMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "snapshot" {
		t.Errorf("expected snapshot, got %q", msg.Type)
	}
	if len(msg.Changes) != 1 || msg.Changes[0].Value != "7" {
		t.Errorf("changes = %+v", msg.Changes)
	}
}

func TestWebSocketBroadcast(t *testing.T) {
	d, _ := setupTest(t, nil)
	conn := dialFeed(t, d)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg feedMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	// The subscription is registered before the snapshot is written.
	if n := d.Hub().Subscribers(); n != 1 {
		t.Fatalf("expected 1 subscriber, got %d", n)
	}

	d.Hub().Broadcast(d.Board().Apply(stats.Stats{ConsultasHoje: stats.Int(5)}))

	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read changes: %v", err)
	}
	if msg.Type != "changes" || len(msg.Changes) != 1 {
		t.Fatalf("msg = %+v", msg)
	}
	c := msg.Changes[0]
	if c.Slot != stats.SlotConsultasHoje || c.Value != "5" || !c.Pulse {
		t.Errorf("change = %+v", c)
	}
}

func TestHubBroadcastNeverBlocks(t *testing.T) {
	h := NewHub()
	ch := h.subscribe()
	defer h.unsubscribe(ch)

	change := []stats.Change{{Slot: stats.SlotSalasOcupadas, Value: "1"}}
	for i := 0; i < subscriberBuf*3; i++ {
		h.Broadcast(change)
	}
	if len(ch) != subscriberBuf {
		t.Errorf("buffer holds %d, want %d", len(ch), subscriberBuf)
	}

	h.Broadcast(nil)
	if len(ch) != subscriberBuf {
		t.Error("empty change set should not be sent")
	}
}
