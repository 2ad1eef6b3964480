package routes

import (
	"errors"
	"testing"
)

func TestBackendTable(t *testing.T) {
	table := MustForMode(ModeBackend)

	tests := []struct {
		page Page
		want string
	}{
		{Dashboard, "/dashboard"},
		{Agenda, "/agenda"},
		{Agendamentos, "/agendamento"},
		{Clientes, "/clientes"},
		{Pets, "/pets"},
		{Usuarios, "/usuarios"},
		{Salas, "/salas"},
		{RelatoriosDashboard, "/relatorios"},
		{RelatoriosPets, "/relatorios/pets"},
		{Login, "/"},
	}
	for _, tt := range tests {
		got, err := table.URL(tt.page)
		if err != nil {
			t.Fatalf("URL(%q): %v", tt.page, err)
		}
		if got != tt.want {
			t.Errorf("URL(%q) = %q, want %q", tt.page, got, tt.want)
		}
	}
}

func TestStaticTable(t *testing.T) {
	table := MustForMode(ModeStatic)

	if got := table.MustURL(Dashboard); got != "2.%20dashboard_vta.html" {
		t.Errorf("dashboard = %q", got)
	}
	if got := table.MustURL(Login); got != "1.%20login_vta.html" {
		t.Errorf("login = %q", got)
	}

	name, err := table.Filename(RelatoriosPets)
	if err != nil {
		t.Fatalf("Filename: %v", err)
	}
	if name != "10. relatorios_pets.html" {
		t.Errorf("Filename = %q, want decoded name", name)
	}
}

func TestFilenameBackendMode(t *testing.T) {
	table := MustForMode(ModeBackend)
	if _, err := table.Filename(Dashboard); err == nil {
		t.Error("expected error for backend filename")
	}
}

func TestForModeInvalid(t *testing.T) {
	if _, err := ForMode("spa"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestURLUnknownPage(t *testing.T) {
	table := MustForMode(ModeBackend)
	_, err := table.URL("financeiro")
	if !errors.Is(err, ErrUnknownPage) {
		t.Errorf("expected ErrUnknownPage, got %v", err)
	}
}

func TestPageForPath(t *testing.T) {
	static := MustForMode(ModeStatic)
	backend := MustForMode(ModeBackend)

	tests := []struct {
		name  string
		table Table
		path  string
		want  Page
		ok    bool
	}{
		{"static encoded", static, "/2.%20dashboard_vta.html", Dashboard, true},
		{"static decoded", static, "/6. pets_vta.html", Pets, true},
		{"static bare", static, "10.%20relatorios_pets.html", RelatoriosPets, true},
		{"static nested", static, "/extras/2.%20dashboard_vta.html", Dashboard, true},
		{"static parent relative", static, "../3.%20agenda_vta.html", Agenda, true},
		{"backend nested", backend, "/relatorios/pets", RelatoriosPets, true},
		{"backend trailing slash", backend, "/agenda/", Agenda, true},
		{"backend root", backend, "/", Login, true},
		{"backend unknown", backend, "/financeiro", "", false},
		{"static root", static, "/", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.table.PageForPath(tt.path)
			if ok != tt.ok || got != tt.want {
				t.Errorf("PageForPath(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEntriesIsCopy(t *testing.T) {
	table := MustForMode(ModeBackend)
	entries := table.Entries()
	entries[Dashboard] = "/hacked"

	if table.MustURL(Dashboard) != "/dashboard" {
		t.Error("mutating Entries() leaked into the table")
	}
}

func TestPagesOrder(t *testing.T) {
	pages := MustForMode(ModeStatic).Pages()
	if len(pages) != 11 {
		t.Fatalf("expected 11 pages, got %d", len(pages))
	}
	if pages[0] != Dashboard || pages[len(pages)-1] != Login {
		t.Errorf("unexpected order: %v", pages)
	}
}

func TestParsePage(t *testing.T) {
	if p, err := ParsePage(" relatoriosPets "); err != nil || p != RelatoriosPets {
		t.Errorf("ParsePage = %q, %v", p, err)
	}
	if _, err := ParsePage("nope"); !errors.Is(err, ErrUnknownPage) {
		t.Errorf("expected ErrUnknownPage, got %v", err)
	}
}
