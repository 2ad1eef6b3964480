// Package nav post-processes page HTML: it points sidebar links at the route
// table, marks the active item, wires logout and back controls, fills the
// user header and patches the legacy sidebar-inside-content layout.
package nav

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/agenda-vta/internal/routes"
	"github.com/ziadkadry99/agenda-vta/internal/session"
)

const (
	sidebarLinks    = ".nav-menu a.nav-link, aside .nav-menu a, .sidebar .nav-menu a"
	logoutControls  = `.logout-btn, [data-action="logout"]`
	backControls    = `.back-btn, [data-action="back"]`
	layoutFixMarker = "data-vta-layout-fix"
)

const layoutFixCSS = `
.main-content { display: grid !important; grid-template-columns: 250px 1fr !important; gap: 2rem !important; }
@media (max-width:1024px){ .main-content { grid-template-columns: 1fr !important; } }
`

// Features toggles the individual passes.
type Features struct {
	RewriteLinks    bool
	HighlightActive bool
	HydrateHeader   bool
	WireLogout      bool
	WireBack        bool
	LayoutFix       bool
}

// FeaturesFor returns the passes that make sense for a routing mode. In
// backend mode links and user data come from the server templates, so the
// rewrite and hydration passes are off.
func FeaturesFor(mode routes.Mode) Features {
	f := Features{
		HighlightActive: true,
		WireLogout:      true,
		WireBack:        true,
		LayoutFix:       true,
	}
	if mode == routes.ModeStatic {
		f.RewriteLinks = true
		f.HydrateHeader = true
	}
	return f
}

// PageContext describes the request a document is being prepared for.
type PageContext struct {
	Current routes.Page     // "" when the path is not in the table
	Referer string          // used as the back target when set
	Session *session.Record // nil when logged out
	RelPath string          // slash path of the page under the site root, static mode only
}

// base is the prefix that leads from the page's directory back to the site
// root, where every static route file lives.
func (pc PageContext) base() string {
	return strings.Repeat("../", strings.Count(strings.Trim(pc.RelPath, "/"), "/"))
}

// Result reports what a pass changed.
type Result struct {
	LinksRewritten int
	LayoutFixed    bool
	HeaderHydrated bool
}

// Navigator applies the enabled passes for one route table.
type Navigator struct {
	table         routes.Table
	features      Features
	logoutConfirm string
}

// Option customizes a Navigator.
type Option func(*Navigator)

// WithFeatures overrides the mode defaults.
func WithFeatures(f Features) Option {
	return func(n *Navigator) { n.features = f }
}

// WithLogoutConfirm sets the confirmation text attached to logout controls.
func WithLogoutConfirm(text string) Option {
	return func(n *Navigator) { n.logoutConfirm = text }
}

// New creates a Navigator for table with the defaults of its mode.
func New(table routes.Table, opts ...Option) *Navigator {
	n := &Navigator{
		table:         table,
		features:      FeaturesFor(table.Mode()),
		logoutConfirm: "Tem certeza que deseja sair do sistema?",
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Features returns the enabled passes.
func (n *Navigator) Features() Features { return n.features }

// Apply runs the enabled passes on doc.
func (n *Navigator) Apply(doc *goquery.Document, pc PageContext) Result {
	var res Result
	if n.features.RewriteLinks {
		res.LinksRewritten = rewriteSidebarLinks(doc, n.table, pc.base())
	}
	if n.features.HighlightActive && pc.Current != "" {
		HighlightActive(doc, n.table, pc.Current)
	}
	if n.features.WireLogout {
		WireLogout(doc, n.table.LogoutURL(), n.logoutConfirm)
	}
	if n.features.WireBack {
		back := pc.Referer
		if back == "" {
			back = n.table.MustURL(routes.Dashboard)
			if n.table.Mode() == routes.ModeStatic {
				back = pc.base() + back
			}
		}
		WireBack(doc, back)
	}
	if n.features.HydrateHeader && pc.Session != nil {
		res.HeaderHydrated = HydrateUserHeader(doc, pc.Session)
	}
	if n.features.LayoutFix {
		res.LayoutFixed = ApplyLayoutFix(doc)
	}
	return res
}

// Transform parses HTML from r, applies the passes and writes the result.
func (n *Navigator) Transform(r io.Reader, w io.Writer, pc PageContext) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("parsing html: %w", err)
	}
	res := n.Apply(doc, pc)

	out, err := doc.Html()
	if err != nil {
		return res, fmt.Errorf("rendering html: %w", err)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return res, err
	}
	return res, nil
}

// IsLoginPage reports whether the document title mentions login.
func IsLoginPage(doc *goquery.Document) bool {
	return strings.Contains(strings.ToLower(doc.Find("title").First().Text()), "login")
}

// RewriteSidebarLinks points every classifiable sidebar anchor at its route
// and marks anchors that still lead nowhere. It returns the number of
// anchors rewritten.
func RewriteSidebarLinks(doc *goquery.Document, table routes.Table) int {
	return rewriteSidebarLinks(doc, table, "")
}

func rewriteSidebarLinks(doc *goquery.Document, table routes.Table, base string) int {
	rewritten := 0
	doc.Find(sidebarLinks).Each(func(_ int, a *goquery.Selection) {
		dataNav, _ := a.Attr(DataAttr)
		if page, ok := Classify(dataNav, a.Text()); ok {
			if u, err := table.URL(page); err == nil {
				a.SetAttr("href", base+u)
				a.SetAttr(DataAttr, string(page))
				rewritten++
			}
		}
		if href, _ := a.Attr("href"); href == "" || href == "#" {
			a.SetAttr("data-nav-inert", "true")
		} else {
			a.RemoveAttr("data-nav-inert")
		}
	})
	return rewritten
}

// HighlightActive gives the anchor of the current page the active class
// and removes it from every other sidebar anchor.
func HighlightActive(doc *goquery.Document, table routes.Table, current routes.Page) {
	doc.Find(sidebarLinks).Each(func(_ int, a *goquery.Selection) {
		if linkPage(a, table) == current {
			a.AddClass("active")
		} else {
			a.RemoveClass("active")
		}
	})
}

func linkPage(a *goquery.Selection, table routes.Table) routes.Page {
	if v, ok := a.Attr(DataAttr); ok {
		if p, err := routes.ParsePage(v); err == nil {
			return p
		}
	}
	if href, ok := a.Attr("href"); ok {
		if p, ok := table.PageForPath(href); ok {
			return p
		}
	}
	return ""
}

// WireLogout points logout controls at the logout endpoint. Anchors get an
// href, other elements a data-href; both carry the confirmation text.
func WireLogout(doc *goquery.Document, logoutURL, confirm string) {
	doc.Find(logoutControls).Each(func(_ int, el *goquery.Selection) {
		setTarget(el, logoutURL)
		if confirm != "" {
			el.SetAttr("data-confirm", confirm)
		}
	})
}

// WireBack points back controls at target.
func WireBack(doc *goquery.Document, target string) {
	doc.Find(backControls).Each(func(_ int, el *goquery.Selection) {
		setTarget(el, target)
	})
}

func setTarget(el *goquery.Selection, target string) {
	if goquery.NodeName(el) == "a" {
		el.SetAttr("href", target)
		return
	}
	el.SetAttr("data-href", target)
}

// HydrateUserHeader fills empty name and role slots from rec.
func HydrateUserHeader(doc *goquery.Document, rec *session.Record) bool {
	changed := false
	if name := doc.Find(".user-details h3").First(); name.Length() > 0 && strings.TrimSpace(name.Text()) == "" {
		name.SetText(fallback(rec.Nome, "Usuário"))
		changed = true
	}
	if role := doc.Find(".user-role").First(); role.Length() > 0 && strings.TrimSpace(role.Text()) == "" {
		role.SetText(fallback(rec.Papel, "Equipe"))
		changed = true
	}
	return changed
}

// ApplyLayoutFix injects the grid stylesheet when the sidebar is nested
// inside the main content. It never injects twice.
func ApplyLayoutFix(doc *goquery.Document) bool {
	if doc.Find("style["+layoutFixMarker+"]").Length() > 0 {
		return false
	}
	if doc.Find(".main-content .sidebar").Length() == 0 {
		return false
	}
	doc.Find("head").First().AppendHtml("<style " + layoutFixMarker + ">" + layoutFixCSS + "</style>")
	return true
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
