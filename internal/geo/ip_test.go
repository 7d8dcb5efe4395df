package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newIPServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("fields") == "" {
			t.Errorf("expected fields query parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIPProviderSuccess(t *testing.T) {
	srv := newIPServer(t, http.StatusOK, map[string]any{
		"status":      "success",
		"lat":         59.3293,
		"lon":         18.0686,
		"city":        "Stockholm",
		"countryCode": "SE",
	})

	got, err := NewIPProvider(srv.URL).CurrentPosition(context.Background(), PositionOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Lat != 59.3293 || got.Lon != 18.0686 || got.Name != "Stockholm" || got.Country != "SE" {
		t.Fatalf("unexpected coordinate %+v", got)
	}
	if got.Accuracy == 0 {
		t.Fatalf("expected an accuracy estimate")
	}
}

func TestIPProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		kind   ErrorKind
	}{
		{"forbidden", http.StatusForbidden, map[string]any{}, PermissionDenied},
		{"server error", http.StatusInternalServerError, map[string]any{}, Unavailable},
		{"private range", http.StatusOK, map[string]any{"status": "fail", "message": "private range"}, Unavailable},
		{"denied", http.StatusOK, map[string]any{"status": "fail", "message": "Access denied"}, PermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newIPServer(t, tt.status, tt.body)
			_, err := NewIPProvider(srv.URL).CurrentPosition(context.Background(), PositionOptions{})
			if !IsKind(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestStaticProvider(t *testing.T) {
	if _, err := (StaticProvider{}).CurrentPosition(context.Background(), PositionOptions{}); !IsKind(err, Unavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	pos := Coordinate{Lat: 1, Lon: 2}
	got, err := StaticProvider{Position: &pos}.CurrentPosition(context.Background(), PositionOptions{})
	if err != nil || got != pos {
		t.Fatalf("got %+v, %v", got, err)
	}
}
