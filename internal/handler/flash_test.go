package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFlashRoundTrip(t *testing.T) {
	t.Parallel()

	set := httptest.NewRecorder()
	setFlash(set, "Budget saved.")
	cookies := set.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()

	if got := popFlash(rec, req); got != "Budget saved." {
		t.Fatalf("popFlash() = %q", got)
	}

	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("flash cookie not expired: %+v", cleared)
	}
}

func TestPopFlash_NoCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	if got := popFlash(rec, httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
		t.Fatalf("popFlash() = %q, want empty", got)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be written without a flash")
	}
}

func TestBarWidth(t *testing.T) {
	t.Parallel()

	barWidth := templateFuncs["barWidth"].(func(float64, float64) string)

	tests := []struct {
		v, max float64
		want   string
	}{
		{50, 200, "25.0"},
		{200, 200, "100.0"},
		{0, 200, "0"},
		{10, 0, "0"},
	}
	for _, tt := range tests {
		if got := barWidth(tt.v, tt.max); got != tt.want {
			t.Errorf("barWidth(%v, %v) = %q, want %q", tt.v, tt.max, got, tt.want)
		}
	}
}
