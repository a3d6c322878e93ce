package webui

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStaticHasIndex(t *testing.T) {
	t.Parallel()

	data, err := fs.ReadFile(Static(), "index.html")
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(data), "/v1/benchmarks") {
		t.Fatalf("index does not talk to the benchmark API")
	}
}

func TestHandlerServesIndexAtRoot(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<title>xdmatvec</title>") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
