package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// runRoot executes the root command with args and returns its stdout.
// Flag variables are package globals, so they are reset afterwards.
func runRoot(t *testing.T, args ...string) string {
	t.Helper()
	t.Cleanup(func() {
		watchURL, watchOnce = "", false
		rewriteSiteDir, rewriteOut, rewriteForce = "", "dist", false
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	cfg := filepath.Join(t.TempDir(), "agendavta.yaml")
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("agendavta %s: %v\nstderr: %s", strings.Join(args, " "), err, errOut.String())
	}
	return out.String()
}

func testSiteDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	return filepath.Join(filepath.Dir(filename), "..", "testdata", "site")
}

func TestWatchOncePrintsEachChange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"consultas_hoje":5}`))
	}))
	defer srv.Close()

	out := runRoot(t, "watch", "--once", "--url", srv.URL)

	if n := strings.Count(out, "stat-consultas-hoje"); n != 1 {
		t.Fatalf("change printed %d times, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, " 5\n") {
		t.Errorf("value missing from output:\n%s", out)
	}
}

func TestWatchOnceFailsOnBadEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	t.Cleanup(func() {
		watchURL, watchOnce = "", false
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "watch", "--once", "--url", srv.URL})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for failing endpoint")
	}
}

func TestRewriteSkipsUnchangedPages(t *testing.T) {
	src := t.TempDir()
	for _, name := range []string{"1. login_vta.html", "6. pets_vta.html"} {
		data, err := os.ReadFile(filepath.Join(testSiteDir(t), name))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(src, name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	out := filepath.Join(t.TempDir(), "dist")

	first := runRoot(t, "rewrite", "--site-dir", src, "--out", out)
	if !strings.Contains(first, "(0 unchanged)") {
		t.Errorf("first run output = %q", first)
	}
	if _, err := os.Stat(filepath.Join(out, manifestName)); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}

	second := runRoot(t, "rewrite", "--site-dir", src, "--out", out)
	if !strings.Contains(second, "in 0 pages") || !strings.Contains(second, "(2 unchanged)") {
		t.Errorf("second run output = %q", second)
	}

	// Editing one source page rewrites only that page.
	pets := filepath.Join(src, "6. pets_vta.html")
	f, err := os.OpenFile(pets, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("<!-- editado -->\n")
	f.Close()

	third := runRoot(t, "rewrite", "--site-dir", src, "--out", out)
	if !strings.Contains(third, "in 1 pages") || !strings.Contains(third, "(1 unchanged)") {
		t.Errorf("third run output = %q", third)
	}

	forced := runRoot(t, "rewrite", "--site-dir", src, "--out", out, "--force")
	if !strings.Contains(forced, "in 2 pages") {
		t.Errorf("forced run output = %q", forced)
	}
}

func TestRewriteRecreatesMissingOutput(t *testing.T) {
	src := t.TempDir()
	data, err := os.ReadFile(filepath.Join(testSiteDir(t), "6. pets_vta.html"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "6. pets_vta.html"), data, 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "dist")

	runRoot(t, "rewrite", "--site-dir", src, "--out", out)
	dest := filepath.Join(out, "6. pets_vta.html")
	if err := os.Remove(dest); err != nil {
		t.Fatal(err)
	}
	runRoot(t, "rewrite", "--site-dir", src, "--out", out)
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("deleted output not recreated: %v", err)
	}
}
