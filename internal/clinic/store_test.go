package clinic

import (
	"testing"
	"time"

	"github.com/ziadkadry99/agenda-vta/internal/db"
)

func setupTestStore(t *testing.T) (*Store, *db.DB) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database), database
}

func TestActiveClients(t *testing.T) {
	store, database := setupTestStore(t)
	ctx := t.Context()

	_, err := database.ExecContext(ctx, `INSERT INTO clientes (nome, email, status) VALUES
		('Carla', 'carla@example.com', NULL),
		('Ana', NULL, 'active'),
		('Bruno', NULL, 'inativo')`)
	if err != nil {
		t.Fatalf("seeding clients: %v", err)
	}

	got, err := store.ActiveClients(ctx)
	if err != nil {
		t.Fatalf("ActiveClients: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 clients, got %+v", got)
	}
	if got[0].Nome != "Ana" || got[1].Nome != "Carla" {
		t.Errorf("not ordered by name: %+v", got)
	}
	if got[1].Status != "active" || got[1].Email != "carla@example.com" {
		t.Errorf("carla = %+v", got[1])
	}
}

func TestRoomsSeeded(t *testing.T) {
	store, _ := setupTestStore(t)

	rooms, err := store.Rooms(t.Context())
	if err != nil {
		t.Fatalf("Rooms: %v", err)
	}
	if len(rooms) != 4 {
		t.Fatalf("expected 4 seeded rooms, got %d", len(rooms))
	}
	if rooms[0].Nome != "Centro Cirúrgico" {
		t.Errorf("first room = %q", rooms[0].Nome)
	}
	for _, r := range rooms {
		if r.Status != "ativo" {
			t.Errorf("room %s status = %q", r.Nome, r.Status)
		}
	}
}

func TestAppointmentsOn(t *testing.T) {
	store, database := setupTestStore(t)
	ctx := t.Context()

	insert := `INSERT INTO agendamentos (cliente, pet, sala, data_agendamento, horario, checkin_realizado) VALUES (?, ?, ?, ?, ?, ?)`
	for _, row := range [][]any{
		{"Ana", "Rex", "Consultório 1", "2026-03-10", "14:00", 0},
		{"Ana", "Mia", "Consultório 2", "2026-03-10", "09:30", 1},
		{"Carla", "Bob", "Consultório 1", "2026-03-11", "09:00", 0},
	} {
		if _, err := database.ExecContext(ctx, insert, row...); err != nil {
			t.Fatalf("seeding appointment: %v", err)
		}
	}

	got, err := store.AppointmentsOn(ctx, time.Date(2026, 3, 10, 18, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("AppointmentsOn: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(got))
	}
	if got[0].Horario != "09:30" || !got[0].CheckinRealizado {
		t.Errorf("first = %+v", got[0])
	}
	if got[0].Data != "2026-03-10" || got[0].Status != "agendado" {
		t.Errorf("first = %+v", got[0])
	}
}
