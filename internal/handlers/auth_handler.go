package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"health-insurance-web/internal/gate"
	"health-insurance-web/internal/middleware"
	"health-insurance-web/internal/models"
	"health-insurance-web/pkg/utils"
)

// LOGIN
func (h *Handler) Login(c *gin.Context) {
	var input models.LoginInput

	// 1. Validate input
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	// 2. Run the gate for the role in the path
	out, err := h.gate.Login(c.Request.Context(), c.Param("role"), input.Email, input.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	// 3. Session or dialog
	h.respondOutcome(c, out, http.StatusUnauthorized)
}

// FEDERATED LOGIN (Google popup)
func (h *Handler) FederatedLogin(c *gin.Context) {
	var input models.FederatedInput

	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	out, err := h.gate.FederatedLogin(c.Request.Context(), c.Param("role"), input.IDToken, input.PopupError)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.respondOutcome(c, out, http.StatusUnauthorized)
}

// SIGNUP
func (h *Handler) Signup(c *gin.Context) {
	role := c.Param("role")

	if role == models.RoleUser {
		var input models.UserSignupInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badInput(c, err)
			return
		}

		out, err := h.gate.SignupUser(c.Request.Context(), input)
		if err != nil {
			h.fail(c, err)
			return
		}
		h.respondOutcome(c, out, http.StatusUnprocessableEntity)
		return
	}

	// Unknown roles and roles without signup are rejected before the body is read
	r, err := h.gate.Role(role)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !r.SelfRegister {
		h.fail(c, gate.ErrSignupNotAvailable)
		return
	}

	var input models.ProviderSignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	out, err := h.gate.SignupProvider(c.Request.Context(), role, input)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondOutcome(c, out, http.StatusUnprocessableEntity)
}

// LOGOUT
func (h *Handler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)
	role := c.GetString(middleware.ContextRole)

	// The cookie goes regardless; a failed revocation only shows up in logs
	h.clearSession(c)

	if err := h.gate.SignOut(c.Request.Context(), role, uid); err != nil {
		log.Warn().Err(err).Str("uid", uid).Msg("logout revocation failed")
	}

	utils.APIResponse(c, http.StatusOK, true, "Signed out", nil)
}
