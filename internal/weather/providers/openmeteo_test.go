package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchUV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/v1/forecast" || q.Get("current") != "uv_index" || q.Get("daily") != "uv_index_max" {
			t.Errorf("unexpected request %s", r.URL)
		}
		fmt.Fprint(w, `{"current": {"uv_index": 6.3}, "daily": {"uv_index_max": [7.9]}}`)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client()).WithBaseURL(srv.URL + "/v1")
	uv, err := p.FetchUV(context.Background(), testCoord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uv.Index != 6.3 || uv.MaxToday != 7.9 || uv.Risk != "High" {
		t.Fatalf("unexpected sample %+v", uv)
	}
}

func TestFetchUVMissingValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"current": {}}`)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client()).WithBaseURL(srv.URL)
	if _, err := p.FetchUV(context.Background(), testCoord); err == nil {
		t.Fatalf("expected error for missing uv index")
	}
}
