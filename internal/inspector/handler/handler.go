package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"fraudgate/internal/domain"
	"fraudgate/internal/inspector"
	"fraudgate/internal/resolver"
	dErrors "fraudgate/pkg/domain-errors"
	"fraudgate/pkg/platform/httputil"
	"fraudgate/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service,RuleSource

// Service defines the interface for inspection operations.
type Service interface {
	Inspect(ctx context.Context, req inspector.Request) (*inspector.Result, error)
	Resolve(req resolver.Request) resolver.Resolution
}

// RuleSource looks up the current definition of a rule.
type RuleSource interface {
	LookupRuleDefinition(ruleID string) (domain.RuleDefinition, error)
}

// Handler wires inspection and operator endpoints to the service.
type Handler struct {
	service Service
	rules   RuleSource
	logger  *slog.Logger
}

// New constructs an inspection handler with its dependencies.
func New(service Service, rules RuleSource, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		rules:   rules,
		logger:  logger,
	}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/inspect", h.HandleInspect)
	r.Get("/rules/{ruleID}", h.HandleGetRule)
	r.Get("/resolve", h.HandleResolve)
}

// HandleInspect handles POST /v1/inspect requests.
func (h *Handler) HandleInspect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[InspectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Inspect(ctx, req.ToRequest())
	if err != nil {
		h.logger.ErrorContext(ctx, "inspection failed",
			"request_id", requestID,
			"caller", requestcontext.Caller(ctx),
			"domain", req.Domain,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "transaction inspected",
		"request_id", requestID,
		"caller", requestcontext.Caller(ctx),
		"domain", req.Domain,
		"risk_score", result.Score,
		"rule_id", result.RuleID,
		"escalated", result.Escalated,
		"evaluated", result.Evaluated,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleGetRule handles GET /v1/rules/{ruleID} requests.
func (h *Handler) HandleGetRule(w http.ResponseWriter, r *http.Request) {
	ruleID := strings.TrimSpace(chi.URLParam(r, "ruleID"))
	if ruleID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "rule id is required"))
		return
	}
	rule, err := h.rules.LookupRuleDefinition(ruleID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRule(rule))
}

// HandleResolve handles GET /v1/resolve requests.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := ResolveQuery{
		Domain:     q.Get("domain"),
		PartyID:    q.Get("party_id"),
		ShopID:     q.Get("shop_id"),
		IdentityID: q.Get("identity_id"),
	}
	if err := query.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	res := h.service.Resolve(query.ToRequest())
	httputil.WriteJSON(w, http.StatusOK, FromResolution(res))
}
