package serve

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/dtnitsch/money-is-time/internal/common"
	"github.com/dtnitsch/money-is-time/models"
	"github.com/dtnitsch/money-is-time/pkg/settings"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","rates":{"USD":1,"EUR":0.5}}`))
	}))
	t.Cleanup(api.Close)

	dir := t.TempDir()
	cfg := models.DefaultRuntimeConfig()
	cfg.DBPath = filepath.Join(dir, "mit.db")
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.Rates.APIURL = api.URL
	cfg.Annotator = models.AnnotatorConfig{
		InitialDelay:     time.Millisecond,
		Debounce:         5 * time.Millisecond,
		MaxWait:          20 * time.Millisecond,
		CompactThreshold: 15,
	}

	svc, err := common.NewServices(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	require.NoError(t, svc.Settings.Set(settings.KeySalary, "10"))
	require.NoError(t, svc.Settings.Set(settings.KeyCurrency, "EUR"))

	return NewHandler(svc, 5*time.Second)
}

func do(h *Handler, method, path, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	ctx.Request.SetBodyString(body)
	h.Handle(&ctx)
	return &ctx
}

func TestHandle_Healthz(t *testing.T) {
	h := newTestHandler(t)

	ctx := do(h, fasthttp.MethodGet, "/healthz", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))

	ctx = do(h, fasthttp.MethodPost, "/healthz", "")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())

	ctx = do(h, fasthttp.MethodGet, "/nope", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestHandle_Annotate(t *testing.T) {
	h := newTestHandler(t)

	body := `{"html":"<html><body><p>Lunch $20</p></body></html>","url":"https://food.example/menu"}`
	ctx := do(h, fasthttp.MethodPost, "/annotate", body)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var resp AnnotateResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))

	assert.Empty(t, resp.Skipped)
	assert.Equal(t, "food.example", resp.Report.Page.Domain)
	assert.Equal(t, 1, resp.Report.Annotated)
	assert.Contains(t, resp.HTML, `money-is-time-badge`)
	assert.Contains(t, resp.HTML, ">1 hours</span>")

	scans, err := h.svc.DB.ListScans(5)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, "food.example", scans[0].Domain)
}

func TestHandle_AnnotateExcludedDomain(t *testing.T) {
	h := newTestHandler(t)
	require.NoError(t, h.svc.Settings.Exclude(t.Context(), "food.example"))

	html := "<html><head></head><body><p>Lunch $20</p></body></html>"
	ctx := do(h, fasthttp.MethodPost, "/annotate", `{"html":"`+html+`","domain":"food.example"}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp AnnotateResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.NotEmpty(t, resp.Skipped)
	assert.NotContains(t, resp.HTML, "money-is-time-badge")
}

func TestHandle_AnnotateBadRequests(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{name: "wrong method", method: fasthttp.MethodGet, body: "", status: fasthttp.StatusMethodNotAllowed},
		{name: "invalid json", method: fasthttp.MethodPost, body: "{", status: fasthttp.StatusBadRequest},
		{name: "missing html", method: fasthttp.MethodPost, body: `{"domain":"x"}`, status: fasthttp.StatusBadRequest},
		{name: "bad url", method: fasthttp.MethodPost, body: `{"html":"<p>$1</p>","url":"ftp://x"}`, status: fasthttp.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := do(h, tt.method, "/annotate", tt.body)
			assert.Equal(t, tt.status, ctx.Response.StatusCode())
			assert.True(t, strings.HasPrefix(string(ctx.Response.Header.ContentType()), "application/json"))
		})
	}
}
