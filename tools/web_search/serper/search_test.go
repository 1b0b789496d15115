package serper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDiscover(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-KEY"); got != "key" {
			t.Errorf("unexpected key header %q", got)
		}
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["q"] != "gạo site:https://bachhoaxanh.com" {
			t.Errorf("unexpected q %v", payload["q"])
		}
		fmt.Fprint(w, `{"organic":[{"title":"Gạo ST25","link":"https://bachhoaxanh.com/gao","snippet":"<em>Gạo</em> ngon"}]}`)
	}))
	defer srv.Close()

	out, err := Search{ApiKey: "key", Endpoint: srv.URL}.Discover(context.Background(), "gạo site:https://bachhoaxanh.com", 3)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(out) != 1 || out[0].URL != "https://bachhoaxanh.com/gao" || out[0].Snippet != "Gạo ngon" {
		t.Fatalf("unexpected results %+v", out)
	}
}

func TestDiscoverServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := (Search{ApiKey: "key", Endpoint: srv.URL}).Discover(context.Background(), "q", 3); err == nil {
		t.Fatalf("expected error")
	}
}
