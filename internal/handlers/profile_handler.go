package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"health-insurance-web/internal/middleware"
	"health-insurance-web/internal/store"
	"health-insurance-web/pkg/utils"
)

// GetProfile returns the role record of the signed-in principal.
func (h *Handler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	role, err := h.gate.Role(c.GetString(middleware.ContextRole))
	if err != nil {
		h.fail(c, err)
		return
	}

	rec, err := h.profiles.Fetch(c.Request.Context(), role.Collection, uid)
	if errors.Is(err, store.ErrNotFound) {
		utils.APIResponse(c, http.StatusNotFound, false, "Profile not found", nil)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Profile", gin.H{"uid": uid, "profile": rec})
}
