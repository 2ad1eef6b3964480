package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestText(t *testing.T) {
	if got := Text(language.BrazilianPortuguese, LoginInvalid); got != "Credenciais inválidas. Tente 1 / 1 (protótipo)." {
		t.Errorf("pt-BR LoginInvalid = %q", got)
	}
	if got := Text(language.English, LogoutConfirm); got != "Are you sure you want to sign out?" {
		t.Errorf("en LogoutConfirm = %q", got)
	}
}

func TestTexts(t *testing.T) {
	got := Texts(language.English, ColRoom, ColType, ColCapacity)
	want := []string{"Room", "Type", "Capacity"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Texts[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if pt := Texts(language.BrazilianPortuguese, ColPhone); pt[0] != "Telefone" {
		t.Errorf("pt-BR ColPhone = %q", pt[0])
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	pt := catalog[language.BrazilianPortuguese]
	en := catalog[language.English]
	for key := range pt {
		if _, ok := en[key]; !ok {
			t.Errorf("english catalog missing %q", key)
		}
	}
	if len(pt) != len(en) {
		t.Errorf("catalog sizes differ: pt=%d en=%d", len(pt), len(en))
	}
}

func TestParseTag(t *testing.T) {
	if tag, ok := ParseTag("en-US"); !ok || tag != language.English {
		t.Errorf("ParseTag(en-US) = %v, %v", tag, ok)
	}
	if tag, ok := ParseTag("pt-BR"); !ok || tag != language.BrazilianPortuguese {
		t.Errorf("ParseTag(pt-BR) = %v, %v", tag, ok)
	}
	if _, ok := ParseTag("!!"); ok {
		t.Error("garbage should not parse")
	}
}

func TestResolverOrder(t *testing.T) {
	r := NewResolver("pt-BR")

	req := httptest.NewRequest(http.MethodGet, "/dashboard?lang=en", nil)
	req.AddCookie(&http.Cookie{Name: LangCookieName, Value: "pt-BR"})
	tag, persist := r.Resolve(req)
	if tag != language.English || !persist {
		t.Errorf("query param: got %v, persist=%v", tag, persist)
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: LangCookieName, Value: "en"})
	req.Header.Set("Accept-Language", "pt-BR")
	if tag, persist := r.Resolve(req); tag != language.English || persist {
		t.Errorf("cookie: got %v, persist=%v", tag, persist)
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	if tag, _ := r.Resolve(req); tag != language.English {
		t.Errorf("accept-language: got %v", tag)
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if tag, _ := r.Resolve(req); tag != language.BrazilianPortuguese {
		t.Errorf("fallback: got %v", tag)
	}
}

func TestNewResolverBadFallback(t *testing.T) {
	r := NewResolver("klingon")
	if tag, _ := r.Resolve(nil); tag != Default() {
		t.Errorf("expected default fallback, got %v", tag)
	}
}

func TestPersist(t *testing.T) {
	w := httptest.NewRecorder()
	Persist(w, language.English)
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != LangCookieName || cookies[0].Value != "en" {
		t.Errorf("unexpected cookies %+v", cookies)
	}
}

func TestNavLabel(t *testing.T) {
	if got := NavLabel(language.BrazilianPortuguese, "relatoriosPets"); got != "Relatórios Pets" {
		t.Errorf("pt-BR relatoriosPets = %q", got)
	}
	if got := NavLabel(language.English, "salas"); got != "Rooms" {
		t.Errorf("en salas = %q", got)
	}
}
