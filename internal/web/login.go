package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/agenda-vta/internal/routes"
)

const loginMessageSelector = "#loginMessage"

// renderLogin writes the login page with the outcome of the last attempt.
func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, state loginState) {
	tag := h.lang(w, r)

	var (
		out []byte
		err error
	)
	switch h.opts.Mode {
	case routes.ModeStatic:
		out, err = h.staticLogin(state)
	default:
		var buf *bytes.Buffer
		data := LoginData{Lang: tag.String(), State: state, tag: tag}
		if state.Success {
			data.Refresh = refreshValue(state)
		}
		buf, err = h.templates.executeLogin(data)
		if buf != nil {
			out = buf.Bytes()
		}
	}
	if err != nil {
		slog.Error("Failed to render login page", "error", err, "component", "Web")
		http.Error(w, "failed to render login page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(out)
}

// staticLogin serves the prototype's login file with the message slot and
// the redirect filled in.
func (h *Handler) staticLogin(state loginState) ([]byte, error) {
	pf := h.site.index[routes.Login]
	raw, err := os.ReadFile(pf.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pf.RelPath, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pf.RelPath, err)
	}

	prepareLoginForm(doc)
	if state.Message != "" {
		setLoginMessage(doc, state)
	}
	if state.Success {
		doc.Find("head").First().AppendHtml(`<meta http-equiv="refresh" content="` + refreshValue(state) + `">`)
		body := doc.Find("body").First()
		body.SetAttr("data-redirect", state.Redirect)
		body.SetAttr("data-redirect-delay", fmt.Sprint(state.DelayMS))
	}
	injectAssets(doc, h.opts.PollInterval.Milliseconds())

	html, err := doc.Html()
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}

// prepareLoginForm makes the prototype form post to the server, naming the
// credential inputs when the markup leaves them anonymous.
func prepareLoginForm(doc *goquery.Document) {
	form := doc.Find("form").First()
	if form.Length() == 0 {
		return
	}
	form.SetAttr("method", "post")
	form.SetAttr("action", "/login")

	if email := form.Find(`input[type="email"], input#email`).First(); email.Length() > 0 {
		if _, ok := email.Attr("name"); !ok {
			email.SetAttr("name", "email")
		}
	}
	if pw := form.Find(`input[type="password"]`).First(); pw.Length() > 0 {
		if _, ok := pw.Attr("name"); !ok {
			pw.SetAttr("name", "senha")
		}
	}
}

// setLoginMessage writes the outcome into the message slot, creating the
// slot at the top of the form when the page has none.
func setLoginMessage(doc *goquery.Document, state loginState) {
	slot := doc.Find(loginMessageSelector).First()
	if slot.Length() == 0 {
		container := doc.Find("form").First()
		if container.Length() == 0 {
			container = doc.Find("body").First()
		}
		container.PrependHtml(`<div id="loginMessage" class="login-message"></div>`)
		slot = doc.Find(loginMessageSelector).First()
	}

	kind := "error"
	if state.Success {
		kind = "success"
	}
	slot.SetText(state.Message)
	slot.AddClass("login-message--" + kind)
	slot.SetAttr("role", "alert")

	if state.Email != "" {
		doc.Find(`input[name="email"]`).First().SetAttr("value", state.Email)
	}
}
