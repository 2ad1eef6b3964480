package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"golang.org/x/text/language"

	"github.com/ziadkadry99/agenda-vta/internal/i18n"
	"github.com/ziadkadry99/agenda-vta/internal/routes"
	"github.com/ziadkadry99/agenda-vta/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed assets/*
var assetsFS embed.FS

// AssetsPrefix is where the navigator script and stylesheet are served.
// It stays clear of the prototype's own assets directory.
const AssetsPrefix = "/_vta/"

// pageTemplates are the templates parsed into the base layout.
var pageTemplates = []string{"dashboard.html", "notificacoes.html", "relatorios.html", "page.html"}

// renderer executes the embedded page templates. Each page is parsed into
// its own clone of the base so "content" blocks do not collide.
type renderer struct {
	pages map[string]*template.Template
	login *template.Template
}

func newRenderer() (*renderer, error) {
	base, err := template.New("base").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parse base template: %w", err)
	}

	r := &renderer{pages: make(map[string]*template.Template, len(pageTemplates))}
	for _, name := range pageTemplates {
		tmpl, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone template: %w", err)
		}
		if _, err := tmpl.ParseFS(templatesFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	r.login, err = template.New("login").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login template: %w", err)
	}
	return r, nil
}

// PageData contains common data for all backend pages.
type PageData struct {
	Lang    string
	Title   string
	Current routes.Page
	Sidebar []SidebarItem
	User    *session.Record
	PollMS  int64
	Data    any

	tag language.Tag
}

// T returns the translation of key in the page language.
func (p PageData) T(key string) string { return i18n.Text(p.tag, key) }

// SidebarItem is one navigation entry.
type SidebarItem struct {
	Page  routes.Page
	URL   string
	Label string
}

// LoginData feeds the login template.
type LoginData struct {
	Lang    string
	State   loginState
	Refresh string

	tag language.Tag
}

// T returns the translation of key in the page language.
func (d LoginData) T(key string) string { return i18n.Text(d.tag, key) }

// execute renders page into a buffer so the navigator can post-process it.
func (r *renderer) execute(name string, data PageData) (*bytes.Buffer, error) {
	tmpl, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %s", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return &buf, nil
}

func (r *renderer) executeLogin(data LoginData) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := r.login.ExecuteTemplate(&buf, "login", data); err != nil {
		return nil, fmt.Errorf("execute login: %w", err)
	}
	return &buf, nil
}

func assetsHandler() http.Handler {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix(AssetsPrefix, http.FileServer(http.FS(sub)))
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTime": formatTime,
		"checkin":    checkin,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}

func checkin(v bool) string {
	if v {
		return "✓"
	}
	return ""
}
