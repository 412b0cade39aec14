// Package handler provides the public HTTP handlers of the intake questionnaire.
package handler

import (
	"net/http"
	"strconv"

	"advisory_portal/internal/intake/form"
	"advisory_portal/internal/intake/service"
	"advisory_portal/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for intake.
type Handler struct {
	svc *service.Service
}

// New creates a new intake handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the intake routes. submitLimit guards the only
// route that reaches the workflow engine.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, submitLimit gin.HandlerFunc) {
	rg.GET("/options", h.Options)
	rg.POST("/steps/:step/validate", h.ValidateStep)
	if submitLimit != nil {
		rg.POST("/submit", submitLimit, h.Submit)
		return
	}
	rg.POST("/submit", h.Submit)
}

// Options handles GET /api/v1/intake/options
func (h *Handler) Options(c *gin.Context) {
	httpkit.OK(c, h.svc.Options())
}

// ValidateStep handles POST /api/v1/intake/steps/:step/validate
func (h *Handler) ValidateStep(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	var draft form.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.ValidateStep(draft, step)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Submit handles POST /api/v1/intake/submit
func (h *Handler) Submit(c *gin.Context) {
	var draft form.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), draft)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}
