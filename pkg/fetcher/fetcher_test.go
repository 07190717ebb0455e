package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetHtmlBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if !strings.HasPrefix(r.Header.Get("User-Agent"), "money-is-time/") {
				t.Errorf("unexpected User-Agent %q", r.Header.Get("User-Agent"))
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<p>$20</p>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewFetcher(5 * time.Second)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "ok", path: "/ok", want: "<p>$20</p>"},
		{name: "not found", path: "/missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := f.GetHtmlBytes(context.Background(), server.URL+tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetHtmlBytes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if string(body) != tt.want {
				t.Errorf("GetHtmlBytes() = %q, want %q", body, tt.want)
			}
		})
	}
}

func TestGetHtmlBytes_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFetcher(5*time.Second).GetHtmlBytes(ctx, server.URL); err == nil {
		t.Error("expected error for cancelled context")
	}
}
