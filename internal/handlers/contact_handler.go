package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"health-insurance-web/internal/models"
	"health-insurance-web/internal/services"
	"health-insurance-web/pkg/utils"
)

func (h *Handler) SubmitContact(c *gin.Context) {
	var input models.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	err := h.contact.Submit(input)

	var missing *services.MissingFieldsError
	switch {
	case errors.As(err, &missing):
		utils.APIResponse(c, http.StatusBadRequest, false, "Please fill in all required fields.", gin.H{"fields": missing.Fields})
	case err != nil:
		utils.APIResponse(c, http.StatusInternalServerError, false, "Your message could not be sent. Please try again later.", nil)
	default:
		utils.APIResponse(c, http.StatusOK, true, "Thank you! Your message has been sent.", nil)
	}
}
