package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"health-insurance-web/internal/models"
	"health-insurance-web/internal/services"
	"health-insurance-web/pkg/utils"
)

// ListPending lists health provider or HMO profiles waiting for approval.
// ?role= is hp (default) or hmo.
func (h *Handler) ListPending(c *gin.Context) {
	roleName := c.DefaultQuery("role", models.RoleHP)
	if roleName != models.RoleHP && roleName != models.RoleHMO {
		utils.APIResponse(c, http.StatusBadRequest, false, "role must be hp or hmo", nil)
		return
	}

	role, err := h.gate.Role(roleName)
	if err != nil {
		h.fail(c, err)
		return
	}

	pending, err := h.profiles.ListPending(c.Request.Context(), role.Collection)
	if err != nil {
		h.fail(c, err)
		return
	}
	if pending == nil {
		pending = []models.ProviderProfile{}
	}

	utils.APIResponse(c, http.StatusOK, true, "Pending accounts", pending)
}

func (h *Handler) ListAuthEvents(c *gin.Context) {
	if h.events == nil {
		utils.APIResponse(c, http.StatusServiceUnavailable, false, "Auth event log is disabled", nil)
		return
	}

	limit := utils.StringToInt(c.Query("limit"), services.DefaultEventLimit)

	events, err := h.events.Recent(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Auth events", events)
}
