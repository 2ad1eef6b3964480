// Package web serves the navigator pages in both routing modes: embedded
// templates at the backend paths, or the prototype HTML files of a static
// site, always post-processed by the nav package.
package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/agenda-vta/internal/clinic"
	"github.com/ziadkadry99/agenda-vta/internal/i18n"
	"github.com/ziadkadry99/agenda-vta/internal/nav"
	"github.com/ziadkadry99/agenda-vta/internal/notifications"
	"github.com/ziadkadry99/agenda-vta/internal/routes"
	"github.com/ziadkadry99/agenda-vta/internal/session"
	"github.com/ziadkadry99/agenda-vta/internal/stats"
)

// Options configures page serving.
type Options struct {
	Mode         routes.Mode
	SiteDir      string   // static mode only
	PagesGlob    string   // static mode only
	Exclude      []string // static mode only
	LoginDelay   time.Duration
	PollInterval time.Duration
	CookieSecure bool
	Language     string
}

// Deps are the stores the pages read from. Sessions and Stats are required.
type Deps struct {
	Sessions      session.Backend
	Stats         stats.Provider
	Board         *stats.Board
	Notifications *notifications.Store
	Clinic        *clinic.Store
}

// Handler serves login, logout and the navigator pages.
type Handler struct {
	opts       Options
	table      routes.Table
	navigators map[language.Tag]*nav.Navigator
	resolver   *i18n.Resolver

	sessions      session.Backend
	stats         stats.Provider
	board         *stats.Board
	notifications *notifications.Store
	markdown      *notifications.Renderer
	clinic        *clinic.Store

	templates *renderer // backend mode
	site      *site     // static mode
}

// New creates a Handler. In static mode the site directory is scanned once
// here.
func New(opts Options, deps Deps) (*Handler, error) {
	if deps.Sessions == nil || deps.Stats == nil {
		return nil, fmt.Errorf("web: sessions and stats are required")
	}

	table, err := routes.ForMode(opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = stats.DefaultInterval
	}
	if deps.Board == nil {
		deps.Board = stats.NewBoard()
	}

	h := &Handler{
		opts:          opts,
		table:         table,
		navigators:    make(map[language.Tag]*nav.Navigator),
		resolver:      i18n.NewResolver(opts.Language),
		sessions:      deps.Sessions,
		stats:         deps.Stats,
		board:         deps.Board,
		notifications: deps.Notifications,
		markdown:      notifications.NewRenderer(),
		clinic:        deps.Clinic,
	}

	for _, tag := range i18n.Supported() {
		h.navigators[tag] = nav.New(table, nav.WithLogoutConfirm(i18n.Text(tag, i18n.LogoutConfirm)))
	}

	switch opts.Mode {
	case routes.ModeBackend:
		h.templates, err = newRenderer()
	case routes.ModeStatic:
		h.site, err = newSite(opts.SiteDir, opts.PagesGlob, opts.Exclude, table)
	}
	if err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}

	slog.Info("Pages ready", "mode", opts.Mode, "component", "Web")
	return h, nil
}

// Table returns the route table of the configured mode.
func (h *Handler) Table() routes.Table { return h.table }

// RegisterPublicRoutes mounts the routes reachable without a session. In
// static mode this includes the whole site, which gates its own pages.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Handle(AssetsPrefix+"*", assetsHandler())
	r.Get(routes.Logout, h.handleLogout)
	r.Post("/login", h.handleLoginPost)

	switch h.opts.Mode {
	case routes.ModeBackend:
		r.Get("/", h.handleLoginGet)
		r.Get("/login", h.handleLoginGet)
		r.Post("/", h.handleLoginPost)
	case routes.ModeStatic:
		r.Get("/login", h.handleLoginGet)
		r.Get("/", h.handleSiteRoot)
		r.Get("/*", h.handleSite)
	}
}

// RegisterPageRoutes mounts the backend pages. It must be wrapped in
// RequireSession. Static mode serves its pages from RegisterPublicRoutes.
func (h *Handler) RegisterPageRoutes(r chi.Router) {
	if h.opts.Mode != routes.ModeBackend {
		return
	}
	for _, page := range h.table.Pages() {
		if page == routes.Login {
			continue
		}
		r.Get(h.table.MustURL(page), h.handlePage(page))
	}
}

// navigator returns the Navigator for the request language.
func (h *Handler) navigator(tag language.Tag) *nav.Navigator {
	if n, ok := h.navigators[tag]; ok {
		return n
	}
	return h.navigators[i18n.Default()]
}

// lang resolves the request language and persists an explicit choice.
func (h *Handler) lang(w http.ResponseWriter, r *http.Request) language.Tag {
	tag, persist := h.resolver.Resolve(r)
	if persist {
		i18n.Persist(w, tag)
	}
	return tag
}

// pageURL returns an absolute URL for page. Static filenames are relative
// in the table, so they are anchored at the site root here.
func (h *Handler) pageURL(page routes.Page) string {
	u := h.table.MustURL(page)
	if h.opts.Mode == routes.ModeStatic {
		return "/" + u
	}
	return u
}

func (h *Handler) loginURL() string     { return h.pageURL(routes.Login) }
func (h *Handler) dashboardURL() string { return h.pageURL(routes.Dashboard) }
