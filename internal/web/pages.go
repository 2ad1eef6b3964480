package web

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/ziadkadry99/agenda-vta/internal/i18n"
	"github.com/ziadkadry99/agenda-vta/internal/nav"
	"github.com/ziadkadry99/agenda-vta/internal/notifications"
	"github.com/ziadkadry99/agenda-vta/internal/reports"
	"github.com/ziadkadry99/agenda-vta/internal/routes"
	"github.com/ziadkadry99/agenda-vta/internal/stats"
)

// statCard is one counter on the dashboard.
type statCard struct {
	Slot  string
	Label string
	Value string
}

var statLabels = map[string]string{
	stats.SlotConsultasHoje:    i18n.StatConsultasHoje,
	stats.SlotSalasDisponiveis: i18n.StatSalasDisponiveis,
	stats.SlotSalasOcupadas:    i18n.StatSalasOcupadas,
	stats.SlotClientesAtivos:   i18n.StatClientesAtivos,
}

type dashboardData struct {
	Cards []statCard
	Today tableData
}

type notificationsData struct {
	Items  []notifications.View
	Unread int
}

type reportsData struct {
	ExportURL string
	Cards     []statCard
}

// tableData is a generic listing. Empty Rows render the placeholder.
type tableData struct {
	Columns []string
	Rows    [][]string
}

// handlePage renders a backend page and runs it through the navigator.
func (h *Handler) handlePage(page routes.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag := h.lang(w, r)
		ctx := r.Context()

		name, data, err := h.pageContent(ctx, tag, page)
		if err != nil {
			slog.Error("Failed to load page data", "page", page, "error", err, "component", "Web")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		rec := h.currentSession(r)
		buf, err := h.templates.execute(name, PageData{
			Lang:    tag.String(),
			Title:   i18n.NavLabel(tag, string(page)),
			Current: page,
			Sidebar: h.sidebar(tag),
			User:    rec,
			PollMS:  h.opts.PollInterval.Milliseconds(),
			Data:    data,
			tag:     tag,
		})
		if err != nil {
			slog.Error("Failed to render page", "page", page, "error", err, "component", "Web")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		pc := nav.PageContext{Current: page, Referer: sameOriginReferer(r), Session: rec}
		if _, err := h.navigator(tag).Transform(buf, w, pc); err != nil {
			slog.Error("Failed to post-process page", "page", page, "error", err, "component", "Web")
		}
	}
}

func (h *Handler) pageContent(ctx context.Context, tag language.Tag, page routes.Page) (string, any, error) {
	switch page {
	case routes.Dashboard:
		today, err := h.appointmentsTable(ctx, tag)
		if err != nil {
			return "", nil, err
		}
		return "dashboard.html", dashboardData{Cards: h.statCards(ctx, tag), Today: today}, nil

	case routes.Notificacoes:
		data, err := h.notificationsData(ctx)
		return "notificacoes.html", data, err

	case routes.RelatoriosDashboard:
		return "relatorios.html", reportsData{ExportURL: reports.ExportPath, Cards: h.statCards(ctx, tag)}, nil

	case routes.Agenda:
		data, err := h.appointmentsTable(ctx, tag)
		return "page.html", data, err

	case routes.Clientes:
		data, err := h.clientsTable(ctx, tag)
		return "page.html", data, err

	case routes.Salas:
		data, err := h.roomsTable(ctx, tag)
		return "page.html", data, err
	}
	return "page.html", tableData{}, nil
}

func (h *Handler) sidebar(tag language.Tag) []SidebarItem {
	var items []SidebarItem
	for _, page := range h.table.Pages() {
		if page == routes.Login {
			continue
		}
		items = append(items, SidebarItem{
			Page:  page,
			URL:   h.pageURL(page),
			Label: i18n.NavLabel(tag, string(page)),
		})
	}
	return items
}

// currentStats reads fresh values from the provider and falls back to the
// poller's board when the provider fails.
func (h *Handler) currentStats(ctx context.Context) map[string]string {
	s, err := h.stats.Current(ctx)
	if err != nil {
		slog.Warn("Stats provider failed, using last known values", "error", err, "component", "Web")
		return h.board.Snapshot()
	}
	return s.Values()
}

func (h *Handler) statCards(ctx context.Context, tag language.Tag) []statCard {
	values := h.currentStats(ctx)
	cards := make([]statCard, 0, len(stats.Slots))
	for _, slot := range stats.Slots {
		v, ok := values[slot]
		if !ok {
			v = "0"
		}
		cards = append(cards, statCard{Slot: slot, Label: i18n.Text(tag, statLabels[slot]), Value: v})
	}
	return cards
}

func (h *Handler) notificationsData(ctx context.Context) (notificationsData, error) {
	if h.notifications == nil {
		return notificationsData{}, nil
	}
	list, err := h.notifications.List(ctx, notifications.ListFilter{Limit: 50})
	if err != nil {
		return notificationsData{}, err
	}
	views, err := h.markdown.RenderAll(list)
	if err != nil {
		return notificationsData{}, err
	}
	unread, err := h.notifications.CountUnread(ctx)
	if err != nil {
		return notificationsData{}, err
	}
	return notificationsData{Items: views, Unread: unread}, nil
}

func (h *Handler) appointmentsTable(ctx context.Context, tag language.Tag) (tableData, error) {
	if h.clinic == nil {
		return tableData{}, nil
	}
	list, err := h.clinic.AppointmentsOn(ctx, time.Now())
	if err != nil {
		return tableData{}, err
	}
	t := tableData{Columns: i18n.Texts(tag, i18n.ColTime, i18n.ColClient, i18n.ColPet, i18n.ColRoom, i18n.ColStatus, i18n.ColCheckin)}
	for _, a := range list {
		t.Rows = append(t.Rows, []string{a.Horario, a.Cliente, a.Pet, a.Sala, a.Status, checkin(a.CheckinRealizado)})
	}
	return t, nil
}

func (h *Handler) clientsTable(ctx context.Context, tag language.Tag) (tableData, error) {
	if h.clinic == nil {
		return tableData{}, nil
	}
	list, err := h.clinic.ActiveClients(ctx)
	if err != nil {
		return tableData{}, err
	}
	t := tableData{Columns: i18n.Texts(tag, i18n.ColName, i18n.ColEmail, i18n.ColPhone, i18n.ColStatus)}
	for _, c := range list {
		t.Rows = append(t.Rows, []string{c.Nome, c.Email, c.Telefone, c.Status})
	}
	return t, nil
}

func (h *Handler) roomsTable(ctx context.Context, tag language.Tag) (tableData, error) {
	if h.clinic == nil {
		return tableData{}, nil
	}
	list, err := h.clinic.Rooms(ctx)
	if err != nil {
		return tableData{}, err
	}
	t := tableData{Columns: i18n.Texts(tag, i18n.ColRoom, i18n.ColType, i18n.ColCapacity, i18n.ColStatus)}
	for _, s := range list {
		t.Rows = append(t.Rows, []string{s.Nome, s.Tipo, strconv.Itoa(s.Capacidade), s.Status})
	}
	return t, nil
}
