package serve

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/dtnitsch/money-is-time/internal/common"
	"github.com/dtnitsch/money-is-time/models"
	"github.com/dtnitsch/money-is-time/pkg/annotator"
	"github.com/dtnitsch/money-is-time/pkg/document"
	"github.com/dtnitsch/money-is-time/pkg/parser"
)

// AnnotateRequest is the body of POST /annotate.
type AnnotateRequest struct {
	HTML   string `json:"html"`
	URL    string `json:"url,omitempty"`
	Domain string `json:"domain,omitempty"`
}

// AnnotateResponse is the reply to POST /annotate. Skipped is set when
// annotation is disabled or the domain is excluded; HTML is then unchanged.
type AnnotateResponse struct {
	HTML    string        `json:"html"`
	Report  models.Report `json:"report"`
	Skipped string        `json:"skipped,omitempty"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Handler serves the annotation API.
type Handler struct {
	svc     *common.Services
	logger  *slog.Logger
	timeout time.Duration
}

// NewHandler returns a Handler that gives each request timeout to settle.
func NewHandler(svc *common.Services, timeout time.Duration) *Handler {
	return &Handler{svc: svc, logger: svc.Logger, timeout: timeout}
}

// Handle routes a request.
func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		if !ctx.IsGet() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case "/annotate":
		if !ctx.IsPost() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.annotate(ctx)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (h *Handler) annotate(ctx *fasthttp.RequestCtx) {
	var req AnnotateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.HTML == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "html is required")
		return
	}

	pageURL, domain := "", req.Domain
	if req.URL != "" {
		u, host, err := common.ParseURL(req.URL)
		if err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, err.Error())
			return
		}
		pageURL = u
		if domain == "" {
			domain = host
		}
	}

	page, err := (&parser.Parser{}).Page(pageURL, []byte(req.HTML))
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	page.Domain = domain

	doc, err := document.Load(bytes.NewReader([]byte(req.HTML)))
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	runCtx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	resp := AnnotateResponse{}
	resp.Report, err = h.svc.Annotate(runCtx, doc, page)
	switch {
	case errors.Is(err, annotator.ErrDisabled), errors.Is(err, annotator.ErrBlacklisted):
		resp.Skipped = err.Error()
	case err != nil:
		h.logger.Error("annotation failed", "domain", domain, "error", err)
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	resp.HTML = doc.String()

	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
	}
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, ErrorResponse{Status: status, Message: message})
}
