// Package handler provides the HTTP handlers of the lead review dashboard.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"advisory_portal/internal/leads/domain"
	"advisory_portal/internal/leads/service"
	"advisory_portal/internal/leads/transport"
	"advisory_portal/platform/apperr"
	"advisory_portal/platform/httpkit"
	"advisory_portal/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidTab       = "unknown tab"
)

// Handler handles HTTP requests for the lead review dashboard.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new leads handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the admin lead routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads", h.ListLeads)
	rg.GET("/leads/:leadId", h.GetLead)
	rg.POST("/leads/:leadId/approve", h.Approve)
	rg.POST("/leads/:leadId/reject", h.Reject)
	rg.POST("/leads/:leadId/confirm-reject", h.ConfirmReject)
	rg.POST("/leads/:leadId/override", h.Override)
	rg.POST("/leads/:leadId/request-info", h.RequestInfo)
	rg.POST("/leads/:leadId/nurture/send", h.SendNurture)
	rg.POST("/leads/:leadId/nurture/dismiss", h.DismissNurture)
	rg.GET("/metrics", h.Metrics)
	rg.GET("/advisors", h.Advisors)
	rg.GET("/overview", h.Overview)
	rg.GET("/options", h.Options)
}

// ListLeads handles GET /api/v1/admin/leads?tab=&status=&refresh=
func (h *Handler) ListLeads(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if !h.valid(c, req) {
		return
	}

	tab := domain.TabPending
	if req.Tab != "" {
		parsed, ok := domain.ParseTab(req.Tab)
		if !ok {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidTab, nil)
			return
		}
		tab = parsed
	}

	snap, err := h.svc.ListLeads(c.Request.Context(), tab, domain.Status(req.Status), req.Refresh)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.LeadsResponse{
		Tab:           snap.Tab,
		Leads:         snap.Leads,
		Count:         snap.Count,
		UsingFallback: snap.UsingFallback,
		RefreshedAt:   snap.RefreshedAt,
	})
}

// GetLead handles GET /api/v1/admin/leads/:leadId
func (h *Handler) GetLead(c *gin.Context) {
	lead, tab, err := h.svc.GetLead(c.Request.Context(), c.Param("leadId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, h.svc.Detail(lead, tab))
}

// Approve handles POST /api/v1/admin/leads/:leadId/approve
func (h *Handler) Approve(c *gin.Context) {
	var req transport.ApproveRequest
	if !h.bind(c, &req) {
		return
	}
	respondOutcome(c, h.svc.Approve(c.Request.Context(), httpkit.Operator(c), c.Param("leadId"), req))
}

// Reject handles POST /api/v1/admin/leads/:leadId/reject
func (h *Handler) Reject(c *gin.Context) {
	var req transport.RejectRequest
	if !h.bind(c, &req) {
		return
	}
	respondOutcome(c, h.svc.Reject(c.Request.Context(), httpkit.Operator(c), c.Param("leadId"), req))
}

// ConfirmReject handles POST /api/v1/admin/leads/:leadId/confirm-reject
func (h *Handler) ConfirmReject(c *gin.Context) {
	var req transport.ConfirmRejectRequest
	if !h.bind(c, &req) {
		return
	}
	respondOutcome(c, h.svc.ConfirmReject(c.Request.Context(), httpkit.Operator(c), c.Param("leadId"), req))
}

// Override handles POST /api/v1/admin/leads/:leadId/override
// The body is optional.
func (h *Handler) Override(c *gin.Context) {
	var req transport.OverrideRequest
	if c.Request.ContentLength != 0 && !h.bind(c, &req) {
		return
	}
	respondOutcome(c, h.svc.Override(c.Request.Context(), httpkit.Operator(c), c.Param("leadId"), req))
}

// RequestInfo handles POST /api/v1/admin/leads/:leadId/request-info
func (h *Handler) RequestInfo(c *gin.Context) {
	var req transport.RequestInfoRequest
	if !h.bind(c, &req) {
		return
	}
	respondOutcome(c, h.svc.RequestInfo(c.Request.Context(), httpkit.Operator(c), c.Param("leadId"), req))
}

// SendNurture handles POST /api/v1/admin/leads/:leadId/nurture/send
// The body is optional; empty fields default to the drafted values.
func (h *Handler) SendNurture(c *gin.Context) {
	var req transport.NurtureSendRequest
	if c.Request.ContentLength != 0 && !h.bind(c, &req) {
		return
	}
	respondOutcome(c, h.svc.SendNurture(c.Request.Context(), httpkit.Operator(c), c.Param("leadId"), req))
}

// DismissNurture handles POST /api/v1/admin/leads/:leadId/nurture/dismiss
func (h *Handler) DismissNurture(c *gin.Context) {
	respondOutcome(c, h.svc.DismissNurture(c.Request.Context(), httpkit.Operator(c), c.Param("leadId")))
}

// Metrics handles GET /api/v1/admin/metrics
func (h *Handler) Metrics(c *gin.Context) {
	metrics, fallback, err := h.svc.Metrics(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.MetricsResponse{Metrics: metrics, UsingFallback: fallback})
}

// Advisors handles GET /api/v1/admin/advisors
func (h *Handler) Advisors(c *gin.Context) {
	advisors, fallback, err := h.svc.Advisors(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.AdvisorsResponse{Advisors: advisors, UsingFallback: fallback})
}

// Overview handles GET /api/v1/admin/overview
func (h *Handler) Overview(c *gin.Context) {
	overview, err := h.svc.Overview(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, overview)
}

// Options handles GET /api/v1/admin/options
func (h *Handler) Options(c *gin.Context) {
	httpkit.OK(c, Options())
}

// Options lists the static choices of the action dialogs and the status filter.
func Options() transport.OptionsResponse {
	out := transport.OptionsResponse{
		RejectReasons:        make([]transport.Option, 0, len(domain.RejectReasons)),
		ConfirmRejectReasons: make([]transport.Option, 0, len(domain.ConfirmRejectReasons)),
		Statuses:             make([]transport.Option, 0, len(domain.AllStatuses)),
		DefaultOverride:      domain.DefaultOverrideReason,
	}
	for _, code := range domain.RejectReasons {
		out.RejectReasons = append(out.RejectReasons, transport.Option{Value: code, Label: domain.RejectReasonLabel(code)})
	}
	for _, code := range domain.ConfirmRejectReasons {
		out.ConfirmRejectReasons = append(out.ConfirmRejectReasons, transport.Option{Value: code, Label: domain.ConfirmRejectReasonLabel(code)})
	}
	for _, status := range domain.AllStatuses {
		out.Statuses = append(out.Statuses, transport.Option{Value: string(status), Label: domain.StatusLabel(status)})
	}
	return out
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	return h.valid(c, req)
}

func (h *Handler) valid(c *gin.Context, req any) bool {
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

// respondOutcome answers with the action result. Failures keep the
// ActionResponse body so callers learn whether the row left the view.
func respondOutcome(c *gin.Context, out service.Outcome) {
	body := transport.ActionResponse{
		Action:          out.Action,
		LeadID:          out.LeadID,
		Succeeded:       out.Succeeded,
		RemovedFromView: out.RemovedFromView,
		Message:         out.Message,
		Lead:            out.Lead,
	}
	if out.Err == nil {
		httpkit.OK(c, body)
		return
	}

	status := http.StatusInternalServerError
	body.Error = "internal error"
	var domainErr *apperr.Error
	if errors.As(out.Err, &domainErr) {
		status = domainErr.HTTPStatus()
		body.Error = domainErr.Message
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(out.Err)
	}
	if strings.TrimSpace(body.Error) == "" {
		body.Error = http.StatusText(status)
	}
	httpkit.JSON(c, status, body)
}
