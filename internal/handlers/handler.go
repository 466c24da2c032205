package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"health-insurance-web/internal/gate"
	"health-insurance-web/internal/identity"
	"health-insurance-web/internal/middleware"
	"health-insurance-web/internal/models"
	"health-insurance-web/pkg/utils"
)

type ContactSubmitter interface {
	Submit(in models.ContactInput) error
}

type ProfileReader interface {
	Fetch(ctx context.Context, collection, uid string) (*models.RoleRecord, error)
	ListPending(ctx context.Context, collection string) ([]models.ProviderProfile, error)
}

type AuthEventLister interface {
	Recent(ctx context.Context, limit int) ([]models.AuthEvent, error)
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// SiteConfig is what the page templates need to know about the deployment.
type SiteConfig struct {
	FirebaseAPIKey    string
	FirebaseProjectID string
}

type Handler struct {
	gate     *gate.Service
	contact  ContactSubmitter
	profiles ProfileReader
	events   AuthEventLister // nil when the audit database is off
	session  SessionConfig
	site     SiteConfig
}

func NewHandler(g *gate.Service, contact ContactSubmitter, profiles ProfileReader, events AuthEventLister, session SessionConfig, site SiteConfig) *Handler {
	return &Handler{
		gate:     g,
		contact:  contact,
		profiles: profiles,
		events:   events,
		session:  session,
		site:     site,
	}
}

// respondOutcome writes a gate outcome. Routed outcomes open a session.
func (h *Handler) respondOutcome(c *gin.Context, out *gate.Outcome, providerStatus int) {
	switch out.Status {
	case gate.StatusRouted:
		if err := h.issueSession(c, out.UID, out.Role); err != nil {
			h.fail(c, err)
			return
		}
		utils.APIResponse(c, http.StatusOK, true, "Signed in", out)
	case gate.StatusCreated:
		utils.APIResponse(c, http.StatusCreated, true, out.Message, out)
	case gate.StatusDenied:
		utils.APIResponse(c, http.StatusForbidden, false, out.Message, out)
	default:
		utils.APIResponse(c, providerStatus, false, out.Message, out)
	}
}

// providerOr maps identity provider errors to their friendly text and
// everything else through fail.
func (h *Handler) providerOr(c *gin.Context, err error, status int) {
	var ierr *identity.Error
	if errors.As(err, &ierr) {
		utils.APIResponse(c, status, false, gate.FriendlyMessage(ierr.Code), gin.H{"code": ierr.Code})
		return
	}
	h.fail(c, err)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verr *gate.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.APIResponse(c, http.StatusBadRequest, false, verr.Message, gin.H{"field": verr.Field})
	case errors.Is(err, gate.ErrUnknownRole):
		utils.APIResponse(c, http.StatusNotFound, false, "Unknown role", nil)
	case errors.Is(err, gate.ErrSignupNotAvailable):
		utils.APIResponse(c, http.StatusForbidden, false, "Sign-up is not available for this role", nil)
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString(middleware.ContextRequestID)).
			Str("path", c.FullPath()).
			Msg("request failed")
		utils.APIResponse(c, http.StatusInternalServerError, false, gate.MessageGeneric, nil)
	}
}

func (h *Handler) issueSession(c *gin.Context, uid, role string) error {
	token, err := utils.GenerateToken(h.session.Secret, uid, role, h.session.TTL)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookie, token, int(h.session.TTL.Seconds()), "/", "", h.session.Secure, true)
	return nil
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookie, "", -1, "/", "", h.session.Secure, true)
}

func badInput(c *gin.Context, err error) {
	utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
}
