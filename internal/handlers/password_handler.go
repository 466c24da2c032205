package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"health-insurance-web/internal/models"
	"health-insurance-web/pkg/utils"
)

// ForgotPassword emails a reset link.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var input models.ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	if err := h.gate.RequestReset(c.Request.Context(), input.Email); err != nil {
		h.providerOr(c, err, http.StatusUnprocessableEntity)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Password reset email sent. Please check your inbox.", nil)
}

// VerifyResetLink checks ?mode=&oobCode= before the new password form is shown.
func (h *Handler) VerifyResetLink(c *gin.Context) {
	email, err := h.gate.VerifyReset(c.Request.Context(), c.Query("mode"), c.Query("oobCode"))
	if err != nil {
		h.providerOr(c, err, http.StatusUnprocessableEntity)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Reset link is valid", gin.H{"email": email})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var input models.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	if err := h.gate.ConfirmReset(c.Request.Context(), input.Mode, input.OOBCode, input.NewPassword, input.ConfirmPassword); err != nil {
		h.providerOr(c, err, http.StatusUnprocessableEntity)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Password has been reset. You can now sign in.", nil)
}
