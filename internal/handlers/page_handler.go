package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"health-insurance-web/internal/gate"
	"health-insurance-web/internal/identity"
	"health-insurance-web/internal/models"
	"health-insurance-web/pkg/utils"
)

func (h *Handler) render(c *gin.Context, code int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Site"] = h.site
	c.HTML(code, name, data)
}

// Page serves a static page.
func (h *Handler) Page(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.render(c, http.StatusOK, name, title, nil)
	}
}

func (h *Handler) NotFoundPage(c *gin.Context) {
	h.render(c, http.StatusNotFound, "not_found.html", "Not found", nil)
}

func (h *Handler) LoginPage(c *gin.Context) {
	role, err := h.gate.Role(c.Param("role"))
	if err != nil {
		h.NotFoundPage(c)
		return
	}

	data := gin.H{"Role": role.Name, "Label": role.Title}
	if role.SelfRegister {
		data["SignupPath"] = "/" + role.Name + "_signup"
	}
	h.render(c, http.StatusOK, "login.html", "Sign in", data)
}

func (h *Handler) UserSignupPage(c *gin.Context) {
	h.render(c, http.StatusOK, "user_signup.html", "Sign up", gin.H{"Role": models.RoleUser})
}

// ProviderSignupPage serves the HP and HMO registration form.
func (h *Handler) ProviderSignupPage(roleName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := h.gate.Role(roleName)
		if err != nil {
			h.NotFoundPage(c)
			return
		}
		h.render(c, http.StatusOK, "provider_signup.html", "Register", gin.H{"Role": role.Name, "Label": role.Title})
	}
}

// ResetPasswordPage verifies the emailed link first; a bad link shows the
// error instead of the form.
func (h *Handler) ResetPasswordPage(c *gin.Context) {
	mode := c.Query("mode")
	code := c.Query("oobCode")

	data := gin.H{"Mode": mode, "OOBCode": code}

	email, err := h.gate.VerifyReset(c.Request.Context(), mode, code)
	if err != nil {
		data["Error"] = resetLinkError(err)
		h.render(c, http.StatusBadRequest, "reset_password.html", "Reset password", data)
		return
	}

	data["Email"] = email
	h.render(c, http.StatusOK, "reset_password.html", "Reset password", data)
}

func resetLinkError(err error) string {
	var verr *gate.ValidationError
	if errors.As(err, &verr) {
		if verr.Field == "mode" {
			return verr.Message
		}
		return "Invalid password reset link."
	}
	return gate.FriendlyMessage(identity.CodeOf(err))
}

// LandingPage serves a role's landing page to a session of that role and
// sends everyone else to the role's sign-in page.
func (h *Handler) LandingPage(roleName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := h.gate.Role(roleName)
		if err != nil {
			h.NotFoundPage(c)
			return
		}

		token, _ := c.Cookie(utils.SessionCookie)
		uid, sessionRole, err := utils.ValidateToken(h.session.Secret, token)
		if err != nil || sessionRole != role.Name {
			c.Redirect(http.StatusFound, "/login/"+role.Name)
			return
		}

		h.render(c, http.StatusOK, "landing.html", role.Title, gin.H{"Role": role.Name, "Label": role.Title, "UID": uid})
	}
}
