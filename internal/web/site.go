package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/agenda-vta/internal/nav"
	"github.com/ziadkadry99/agenda-vta/internal/routes"
	"github.com/ziadkadry99/agenda-vta/internal/stats"
	"github.com/ziadkadry99/agenda-vta/internal/walker"
)

const assetsMarker = "data-vta-assets"

// site is a prototype directory served in static mode. Pages are indexed
// once at startup.
type site struct {
	root  string
	pages map[string]walker.PageFile // by relative path
	index map[routes.Page]walker.PageFile
	files http.Handler
}

func newSite(root, pattern string, exclude []string, table routes.Table) (*site, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving site dir: %w", err)
	}
	found, err := walker.Walk(walker.WalkerConfig{RootDir: abs, Pattern: pattern, Exclude: exclude})
	if err != nil {
		return nil, fmt.Errorf("scanning site: %w", err)
	}

	s := &site{
		root:  abs,
		pages: make(map[string]walker.PageFile, len(found)),
		index: walker.Index(found),
		files: http.FileServer(http.Dir(abs)),
	}
	for _, p := range found {
		s.pages[p.RelPath] = p
	}
	if _, ok := s.index[routes.Login]; !ok {
		return nil, fmt.Errorf("no login page found in %s", abs)
	}

	missing := 0
	for _, page := range table.Pages() {
		if _, ok := s.index[page]; !ok {
			missing++
			slog.Warn("Page file not found", "page", page, "component", "Site")
		}
	}
	slog.Info("Site indexed", "root", abs, "pages", len(found), "missing", missing, "component", "Site")
	return s, nil
}

// lookup resolves a request path to a discovered HTML page.
func (s *site) lookup(table routes.Table, path string) (walker.PageFile, bool) {
	if page, ok := table.PageForPath(path); ok {
		if pf, ok := s.index[page]; ok {
			return pf, true
		}
	}
	rel := strings.TrimPrefix(path, "/")
	if decoded, err := url.PathUnescape(rel); err == nil {
		rel = decoded
	}
	pf, ok := s.pages[rel]
	return pf, ok
}

func (h *Handler) handleSiteRoot(w http.ResponseWriter, r *http.Request) {
	if h.sessionService(r).Active(r.Context()) {
		http.Redirect(w, r, h.dashboardURL(), http.StatusFound)
		return
	}
	http.Redirect(w, r, h.loginURL(), http.StatusFound)
}

// handleSite serves the prototype. Non-HTML files and login pages are
// public; every other page requires a session.
func (h *Handler) handleSite(w http.ResponseWriter, r *http.Request) {
	pf, ok := h.site.lookup(h.table, r.URL.Path)
	if !ok {
		if strings.HasSuffix(strings.ToLower(r.URL.Path), ".html") && h.currentSession(r) == nil {
			h.deny(w, r)
			return
		}
		h.site.files.ServeHTTP(w, r)
		return
	}
	if pf.Page == routes.Login {
		h.handleLoginGet(w, r)
		return
	}

	raw, err := os.ReadFile(pf.Path)
	if err != nil {
		slog.Error("Failed to read page", "path", pf.RelPath, "error", err, "component", "Site")
		http.Error(w, "failed to read page", http.StatusInternalServerError)
		return
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		http.Error(w, "failed to parse page", http.StatusInternalServerError)
		return
	}

	// Unrouted copies of the login page stay public.
	rec := h.currentSession(r)
	if rec == nil && (pf.Routed() || !nav.IsLoginPage(doc)) {
		h.deny(w, r)
		return
	}

	tag := h.lang(w, r)
	h.navigator(tag).Apply(doc, nav.PageContext{Current: pf.Page, Referer: sameOriginReferer(r), Session: rec, RelPath: pf.RelPath})
	if pf.Page == routes.Dashboard {
		h.fillStats(r, doc)
	}
	injectAssets(doc, h.opts.PollInterval.Milliseconds())

	out, err := doc.Html()
	if err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(out))
}

// fillStats writes the current values into the prototype's stat slots.
// The first paint never pulses.
func (h *Handler) fillStats(r *http.Request, doc *goquery.Document) {
	s, err := h.stats.Current(r.Context())
	if err != nil {
		slog.Warn("Stats provider failed, using last known values", "error", err, "component", "Site")
		for slot, v := range h.board.Snapshot() {
			doc.Find("#" + slot).First().SetText(v)
		}
		return
	}
	stats.ApplyToDocument(doc, s)
	doc.Find("." + stats.PulseClass).RemoveClass(stats.PulseClass)
}

// injectAssets adds the navigator stylesheet and script once.
func injectAssets(doc *goquery.Document, pollMS int64) {
	if doc.Find("["+assetsMarker+"]").Length() > 0 {
		return
	}
	head := doc.Find("head").First()
	head.AppendHtml(`<link rel="stylesheet" href="` + AssetsPrefix + `vta.css" ` + assetsMarker + `>`)
	head.AppendHtml(`<script src="` + AssetsPrefix + `vta.js" defer ` + assetsMarker + `></script>`)
	doc.Find("body").First().SetAttr("data-poll-interval", fmt.Sprint(pollMS))
}

// sameOriginReferer returns the path of the Referer header when it points
// at this host, and "" otherwise.
func sameOriginReferer(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if u.Host != "" && u.Host != r.Host {
		return ""
	}
	if u.Path == r.URL.Path {
		return ""
	}
	return u.RequestURI()
}
