package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ziadkadry99/agenda-vta/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func testNotification() Notification {
	return Notification{
		Titulo:   "Vacina pendente",
		Mensagem: "O pet **Rex** precisa da vacina antirrábica.",
		Tipo:     KindAlerta,
	}
}

func TestStoreCreate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, testNotification())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated ID")
	}
	if created.Lida {
		t.Error("expected Lida = false")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Titulo != "Vacina pendente" || got.Tipo != KindAlerta {
		t.Errorf("got %+v", got)
	}
}

func TestStoreCreateDefaultsAndValidation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	n := testNotification()
	n.Tipo = ""
	created, err := store.Create(ctx, n)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Tipo != KindInfo {
		t.Errorf("Tipo = %q, want info", created.Tipo)
	}

	bad := []Notification{
		{Mensagem: "sem titulo"},
		{Titulo: "sem mensagem"},
		{Titulo: "x", Mensagem: "y", Tipo: "critico"},
	}
	for _, b := range bad {
		if _, err := store.Create(ctx, b); err == nil {
			t.Errorf("expected validation error for %+v", b)
		}
	}
}

func TestStoreGetByIDNotFound(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreListFilters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, tipo := range []Kind{KindInfo, KindAlerta, KindUrgente, KindInfo} {
		n := testNotification()
		n.Tipo = tipo
		if _, err := store.Create(ctx, n); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4, got %d", len(all))
	}

	infos, _ := store.List(ctx, ListFilter{Tipo: KindInfo})
	if len(infos) != 2 {
		t.Errorf("expected 2 info notifications, got %d", len(infos))
	}

	limited, _ := store.List(ctx, ListFilter{Limit: 3})
	if len(limited) != 3 {
		t.Errorf("expected 3 with limit, got %d", len(limited))
	}

	if err := store.MarkRead(ctx, all[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	unread, _ := store.List(ctx, ListFilter{UnreadOnly: true})
	if len(unread) != 3 {
		t.Errorf("expected 3 unread, got %d", len(unread))
	}
	count, err := store.CountUnread(ctx)
	if err != nil || count != 3 {
		t.Errorf("CountUnread = %d, %v", count, err)
	}
}

func TestStoreMarkReadNotFound(t *testing.T) {
	store := setupTestStore(t)
	if err := store.MarkRead(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRenderer(t *testing.T) {
	r := NewRenderer()

	html, err := r.Render("O pet **Rex** precisa de vacina.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(html), "<strong>Rex</strong>") {
		t.Errorf("missing bold: %s", html)
	}

	html, err = r.Render(`Clique <a href="javascript:alert(1)" onclick="x()">aqui</a><script>alert(1)</script>`)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, bad := range []string{"<script", "javascript:", "onclick"} {
		if strings.Contains(string(html), bad) {
			t.Errorf("unsanitized %q in %s", bad, html)
		}
	}
}

func TestRendererHighlightsCode(t *testing.T) {
	r := NewRenderer()

	html, err := r.Render("Falha na sincronização:\n\n```go\nfunc main() { return }\n```\n")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "<pre") {
		t.Fatalf("code block not rendered: %s", out)
	}
	if !strings.Contains(out, "<span style=") || !strings.Contains(out, "font-weight") {
		t.Errorf("code not highlighted: %s", out)
	}
	if !strings.Contains(out, "main") {
		t.Errorf("code text lost: %s", out)
	}
}

func setupRouter(t *testing.T) (chi.Router, *Store) {
	t.Helper()
	store := setupTestStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store, NewRenderer())
	return r, store
}

func TestHandleList(t *testing.T) {
	r, store := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/notificacoes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("empty list body = %s", w.Body.String())
	}

	store.Create(context.Background(), testNotification())

	req = httptest.NewRequest(http.MethodGet, "/api/notificacoes?nao_lidas=true", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var list []Notification
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 notification, got %d", len(list))
	}
}

func TestHandleCreateAndGet(t *testing.T) {
	r, _ := setupRouter(t)

	body, _ := json.Marshal(testNotification())
	req := httptest.NewRequest(http.MethodPost, "/api/notificacoes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created Notification
	json.NewDecoder(w.Body).Decode(&created)

	req = httptest.NewRequest(http.MethodGet, "/api/notificacoes/"+created.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var got notificationResponse
	json.NewDecoder(w.Body).Decode(&got)
	if !strings.Contains(got.HTML, "<strong>Rex</strong>") {
		t.Errorf("html = %q", got.HTML)
	}
}

func TestHandleCreateInvalid(t *testing.T) {
	r, _ := setupRouter(t)

	for _, body := range []string{"{", `{"titulo":"x"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/notificacoes", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestHandleMarkRead(t *testing.T) {
	r, store := setupRouter(t)
	created, _ := store.Create(context.Background(), testNotification())

	req := httptest.NewRequest(http.MethodPost, "/api/notificacoes/"+created.ID+"/lida", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	got, _ := store.GetByID(context.Background(), created.ID)
	if !got.Lida {
		t.Error("notification not marked read")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/notificacoes/nao-lidas", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var count map[string]int
	json.NewDecoder(w.Body).Decode(&count)
	if count["nao_lidas"] != 0 {
		t.Errorf("nao_lidas = %d", count["nao_lidas"])
	}

	req = httptest.NewRequest(http.MethodPost, "/api/notificacoes/missing/lida", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
