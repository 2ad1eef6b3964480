package nav

import (
	"strings"

	"github.com/ziadkadry99/agenda-vta/internal/routes"
)

// DataAttr names the attribute that pins an anchor to a page identifier.
const DataAttr = "data-nav"

// keywordRule matches lower-cased link text. Rules are evaluated in order
// and the first match wins.
type keywordRule struct {
	page  routes.Page
	all   []string // every group must match
	none  []string // none may appear
	anyOf [][]string
}

func (r keywordRule) matches(label string) bool {
	for _, kw := range r.none {
		if strings.Contains(label, kw) {
			return false
		}
	}
	for _, kw := range r.all {
		if !strings.Contains(label, kw) {
			return false
		}
	}
	for _, group := range r.anyOf {
		if !containsAny(label, group) {
			return false
		}
	}
	return true
}

var reports = []string{"relatórios", "relatorios", "relatório", "relatorio"}

// keywordRules is the fallback table for sidebars that predate data-nav.
// Report rules come before the bare "dashboard" and "pets" rules so that
// "Relatórios Pets" is not swallowed by the pets page.
var keywordRules = []keywordRule{
	{page: routes.RelatoriosDashboard, anyOf: [][]string{reports, {"adm", "dashboard"}}},
	{page: routes.RelatoriosPets, anyOf: [][]string{reports, {"pets"}}},
	{page: routes.Dashboard, all: []string{"dashboard"}},
	{page: routes.Agenda, all: []string{"agenda"}, none: []string{"agendamento"}},
	{page: routes.Agendamentos, all: []string{"agendamento"}},
	{page: routes.Clientes, all: []string{"clientes"}},
	{page: routes.Pets, all: []string{"pets"}},
	{page: routes.Usuarios, anyOf: [][]string{{"usuário", "usuarios", "usuários"}}},
	{page: routes.Salas, all: []string{"sala"}},
	{page: routes.Notificacoes, all: []string{"notific"}},
}

// Classify resolves a sidebar link to a page. A valid data-nav value wins;
// otherwise the visible text is matched against the keyword table.
func Classify(dataNav, text string) (routes.Page, bool) {
	if dataNav != "" {
		if p, err := routes.ParsePage(dataNav); err == nil {
			return p, true
		}
	}
	return ClassifyText(text)
}

// ClassifyText matches link text against the keyword table.
func ClassifyText(text string) (routes.Page, bool) {
	label := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if label == "" {
		return "", false
	}
	for _, rule := range keywordRules {
		if rule.matches(label) {
			return rule.page, true
		}
	}
	return "", false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
