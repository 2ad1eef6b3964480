// Package i18n holds the user-facing strings in Portuguese and English.
package i18n

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "vta_lang"
)

// Message keys.
const (
	LoginSuccess       = "login.success"
	LoginInvalid       = "login.invalid"
	LoginMissingFields = "login.missing_fields"
	LogoutConfirm      = "logout.confirm"
	Unauthenticated    = "auth.unauthenticated"
	StatsUnavailable   = "stats.unavailable"
	PageNotFound       = "page.not_found"

	UILogout          = "ui.logout"
	UIBack            = "ui.back"
	UIExport          = "ui.export"
	UINoNotifications = "ui.no_notifications"
	UIMarkRead        = "ui.mark_read"
	UISignIn          = "ui.sign_in"
	UIEmail           = "ui.email"
	UIPassword        = "ui.password"
	UIPlaceholder     = "ui.placeholder"

	StatConsultasHoje    = "stat.consultas_hoje"
	StatSalasDisponiveis = "stat.salas_disponiveis"
	StatSalasOcupadas    = "stat.salas_ocupadas"
	StatClientesAtivos   = "stat.clientes_ativos"

	ColTime     = "col.time"
	ColClient   = "col.client"
	ColPet      = "col.pet"
	ColRoom     = "col.room"
	ColStatus   = "col.status"
	ColCheckin  = "col.checkin"
	ColName     = "col.name"
	ColEmail    = "col.email"
	ColPhone    = "col.phone"
	ColType     = "col.type"
	ColCapacity = "col.capacity"
)

// NavPrefix prefixes the sidebar label key of each page, e.g. "nav.pets".
const NavPrefix = "nav."

var supportedTags = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
}

var tagMatcher = language.NewMatcher(supportedTags)

var catalog = map[language.Tag]map[string]string{
	language.BrazilianPortuguese: {
		LoginSuccess:       "Login realizado! Redirecionando…",
		LoginInvalid:       "Credenciais inválidas. Tente 1 / 1 (protótipo).",
		LoginMissingFields: "Email e senha são obrigatórios!",
		LogoutConfirm:      "Tem certeza que deseja sair do sistema?",
		Unauthenticated:    "Não autenticado.",
		StatsUnavailable:   "Erro ao atualizar dashboard.",
		PageNotFound:       "Página não encontrada.",

		UILogout:          "Sair",
		UIBack:            "Voltar",
		UIExport:          "Exportar planilha",
		UINoNotifications: "Nenhuma notificação.",
		UIMarkRead:        "Marcar como lida",
		UISignIn:          "Entrar",
		UIEmail:           "Email",
		UIPassword:        "Senha",
		UIPlaceholder:     "Conteúdo em construção.",

		StatConsultasHoje:    "Consultas hoje",
		StatSalasDisponiveis: "Salas disponíveis",
		StatSalasOcupadas:    "Salas ocupadas",
		StatClientesAtivos:   "Clientes ativos",

		ColTime:     "Horário",
		ColClient:   "Cliente",
		ColPet:      "Pet",
		ColRoom:     "Sala",
		ColStatus:   "Status",
		ColCheckin:  "Check-in",
		ColName:     "Nome",
		ColEmail:    "Email",
		ColPhone:    "Telefone",
		ColType:     "Tipo",
		ColCapacity: "Capacidade",

		NavPrefix + "dashboard":           "Dashboard",
		NavPrefix + "agenda":              "Agenda",
		NavPrefix + "agendamentos":        "Novo Agendamento",
		NavPrefix + "clientes":            "Clientes",
		NavPrefix + "pets":                "Pets",
		NavPrefix + "usuarios":            "Usuários",
		NavPrefix + "salas":               "Salas",
		NavPrefix + "relatoriosDashboard": "Relatórios ADM",
		NavPrefix + "relatoriosPets":      "Relatórios Pets",
		NavPrefix + "notificacoes":        "Notificações",
		NavPrefix + "login":               "Login",
	},
	language.English: {
		LoginSuccess:       "Signed in! Redirecting…",
		LoginInvalid:       "Invalid credentials. Try 1 / 1 (prototype).",
		LoginMissingFields: "Email and password are required.",
		LogoutConfirm:      "Are you sure you want to sign out?",
		Unauthenticated:    "Not authenticated.",
		StatsUnavailable:   "Could not refresh the dashboard.",
		PageNotFound:       "Page not found.",

		UILogout:          "Sign out",
		UIBack:            "Back",
		UIExport:          "Export spreadsheet",
		UINoNotifications: "No notifications.",
		UIMarkRead:        "Mark as read",
		UISignIn:          "Sign in",
		UIEmail:           "Email",
		UIPassword:        "Password",
		UIPlaceholder:     "Content coming soon.",

		StatConsultasHoje:    "Appointments today",
		StatSalasDisponiveis: "Available rooms",
		StatSalasOcupadas:    "Occupied rooms",
		StatClientesAtivos:   "Active clients",

		ColTime:     "Time",
		ColClient:   "Client",
		ColPet:      "Pet",
		ColRoom:     "Room",
		ColStatus:   "Status",
		ColCheckin:  "Checked in",
		ColName:     "Name",
		ColEmail:    "Email",
		ColPhone:    "Phone",
		ColType:     "Type",
		ColCapacity: "Capacity",

		NavPrefix + "dashboard":           "Dashboard",
		NavPrefix + "agenda":              "Schedule",
		NavPrefix + "agendamentos":        "New Appointment",
		NavPrefix + "clientes":            "Clients",
		NavPrefix + "pets":                "Pets",
		NavPrefix + "usuarios":            "Users",
		NavPrefix + "salas":               "Rooms",
		NavPrefix + "relatoriosDashboard": "Admin Reports",
		NavPrefix + "relatoriosPets":      "Pet Reports",
		NavPrefix + "notificacoes":        "Notifications",
		NavPrefix + "login":               "Sign in",
	},
}

func init() {
	for tag, msgs := range catalog {
		for key, msg := range msgs {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.BrazilianPortuguese
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Text returns the translation of key for tag.
func Text(tag language.Tag, key string) string {
	return Printer(tag).Sprintf(key)
}

// Texts translates each key in order.
func Texts(tag language.Tag, keys ...string) []string {
	p := Printer(tag)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = p.Sprintf(k)
	}
	return out
}

// NavLabel returns the sidebar label of a page.
func NavLabel(tag language.Tag, page string) string {
	return Text(tag, NavPrefix+page)
}

// ParseTag matches a language string against the supported tags.
func ParseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := tagMatcher.Match(tag)
	if conf == language.No {
		return language.Und, false
	}
	return supportedTags[idx], true
}

// Resolver picks the language of a request: query parameter, then cookie,
// then Accept-Language, then the configured fallback.
type Resolver struct {
	fallback language.Tag
}

// NewResolver creates a Resolver. An unsupported fallback is replaced with
// Default().
func NewResolver(fallback string) *Resolver {
	tag, ok := ParseTag(fallback)
	if !ok {
		tag = Default()
	}
	return &Resolver{fallback: tag}
}

// Resolve determines the best language tag for the request. The bool
// reports whether the lang query param should be persisted as a cookie.
func (r *Resolver) Resolve(req *http.Request) (language.Tag, bool) {
	if req == nil {
		return r.fallback, false
	}
	if v := req.URL.Query().Get(LangParam); v != "" {
		if tag, ok := ParseTag(v); ok {
			return tag, true
		}
	}
	if c, err := req.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(c.Value); ok {
			return tag, false
		}
	}
	if accept := req.Header.Get("Accept-Language"); accept != "" {
		tags, _, err := language.ParseAcceptLanguage(accept)
		if err == nil && len(tags) > 0 {
			_, idx, conf := tagMatcher.Match(tags...)
			if conf != language.No {
				return supportedTags[idx], false
			}
		}
	}
	return r.fallback, false
}

// Persist writes the language cookie.
func Persist(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
