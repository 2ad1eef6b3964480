// Package routes holds the fixed page tables for both deployment modes.
package routes

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Page is a stable logical page identifier.
type Page string

const (
	Dashboard           Page = "dashboard"
	Agenda              Page = "agenda"
	Agendamentos        Page = "agendamentos"
	Clientes            Page = "clientes"
	Pets                Page = "pets"
	Usuarios            Page = "usuarios"
	Salas               Page = "salas"
	RelatoriosDashboard Page = "relatoriosDashboard"
	RelatoriosPets      Page = "relatoriosPets"
	Notificacoes        Page = "notificacoes"
	Login               Page = "login"
)

// Mode selects which URL set the table resolves to.
type Mode string

const (
	ModeStatic  Mode = "static"
	ModeBackend Mode = "backend"
)

// Logout is the logout endpoint, shared by both modes.
const Logout = "/logout"

// ErrUnknownPage is returned when a page identifier is not in the table.
var ErrUnknownPage = errors.New("unknown page")

// order is the sidebar order of the pages.
var order = []Page{
	Dashboard, Agenda, Agendamentos, Clientes, Pets, Usuarios, Salas,
	RelatoriosDashboard, RelatoriosPets, Notificacoes, Login,
}

// Static filenames carry the space after the number pre-encoded so they can
// be dropped straight into href attributes.
var staticURLs = map[Page]string{
	Login:               "1.%20login_vta.html",
	Dashboard:           "2.%20dashboard_vta.html",
	Agenda:              "3.%20agenda_vta.html",
	Agendamentos:        "4.%20agendamento_vta.html",
	Clientes:            "5.%20clientes_vta.html",
	Pets:                "6.%20pets_vta.html",
	Usuarios:            "7.%20usuarios_vta.html",
	Salas:               "8.%20salas_vta.html",
	RelatoriosDashboard: "9.%20relatorios_dashboard.html",
	RelatoriosPets:      "10.%20relatorios_pets.html",
	Notificacoes:        "11.%20notificacoes_vta.html",
}

var backendURLs = map[Page]string{
	Login:               "/",
	Dashboard:           "/dashboard",
	Agenda:              "/agenda",
	Agendamentos:        "/agendamento",
	Clientes:            "/clientes",
	Pets:                "/pets",
	Usuarios:            "/usuarios",
	Salas:               "/salas",
	RelatoriosDashboard: "/relatorios",
	RelatoriosPets:      "/relatorios/pets",
	Notificacoes:        "/notificacoes",
}

// Table maps pages to URLs for one mode. The zero value is not usable; build
// one with ForMode.
type Table struct {
	mode   Mode
	urls   map[Page]string
	byPath map[string]Page
}

// ForMode returns the table for the given mode.
func ForMode(mode Mode) (Table, error) {
	var src map[Page]string
	switch mode {
	case ModeStatic:
		src = staticURLs
	case ModeBackend:
		src = backendURLs
	default:
		return Table{}, fmt.Errorf("invalid routing mode %q: must be static or backend", mode)
	}

	t := Table{
		mode:   mode,
		urls:   make(map[Page]string, len(src)),
		byPath: make(map[string]Page, len(src)),
	}
	for p, u := range src {
		t.urls[p] = u
		t.byPath[normalizePath(u)] = p
	}
	return t, nil
}

// MustForMode is ForMode for the two known modes; it panics otherwise.
func MustForMode(mode Mode) Table {
	t, err := ForMode(mode)
	if err != nil {
		panic(err)
	}
	return t
}

// Mode returns the routing mode of the table.
func (t Table) Mode() Mode { return t.mode }

// URL returns the navigable URL of page.
func (t Table) URL(page Page) (string, error) {
	u, ok := t.urls[page]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	return u, nil
}

// MustURL returns the URL of a page known to be in the table.
func (t Table) MustURL(page Page) string {
	u, err := t.URL(page)
	if err != nil {
		panic(err)
	}
	return u
}

// Pages returns every page in sidebar order.
func (t Table) Pages() []Page {
	out := make([]Page, len(order))
	copy(out, order)
	return out
}

// Entries returns a copy of the page to URL mapping.
func (t Table) Entries() map[Page]string {
	out := make(map[Page]string, len(t.urls))
	for p, u := range t.urls {
		out[p] = u
	}
	return out
}

// PageForPath resolves a request path (encoded or not) back to its page.
func (t Table) PageForPath(path string) (Page, bool) {
	p, ok := t.byPath[normalizePath(path)]
	return p, ok
}

// Filename returns the on-disk file name of a static page, with the
// percent-escapes decoded. Backend tables have no files.
func (t Table) Filename(page Page) (string, error) {
	if t.mode != ModeStatic {
		return "", fmt.Errorf("filenames are only defined in static mode")
	}
	u, err := t.URL(page)
	if err != nil {
		return "", err
	}
	name, err := url.PathUnescape(u)
	if err != nil {
		return "", fmt.Errorf("decoding %q: %w", u, err)
	}
	return name, nil
}

// LogoutURL returns the logout endpoint.
func (t Table) LogoutURL() string { return Logout }

// ParsePage validates a page identifier such as a data-nav attribute value.
func ParsePage(s string) (Page, error) {
	p := Page(strings.TrimSpace(s))
	if _, ok := backendURLs[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
	}
	return p, nil
}

// normalizePath decodes escapes and reduces static file names to their base
// name so "/2.%20dashboard_vta.html", "2. dashboard_vta.html" and
// "/extras/2.%20dashboard_vta.html" compare equal. The backend root "/" is
// preserved.
func normalizePath(p string) string {
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	if p == "/" || p == "" {
		return "/"
	}
	p = strings.TrimSuffix(p, "/")
	if strings.HasSuffix(p, ".html") {
		p = path.Base(p)
	}
	return p
}
