package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"health-insurance-web/internal/config"
	"health-insurance-web/internal/gate"
	"health-insurance-web/internal/handlers"
	"health-insurance-web/internal/identity"
	"health-insurance-web/internal/models"
	"health-insurance-web/internal/routes"
	"health-insurance-web/internal/services"
	"health-insurance-web/internal/store"
	"health-insurance-web/internal/testutil"
	"health-insurance-web/pkg/utils"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	router   *gin.Engine
	idp      *testutil.MockIdentityProvider
	profiles *testutil.MockProfileStore
	mailer   *testutil.MockMailer
	events   *testutil.MockAuthEvents
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type outcomeBody struct {
	Status   string `json:"status"`
	Reason   string `json:"reason"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Redirect string `json:"redirect"`
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		idp:      new(testutil.MockIdentityProvider),
		profiles: new(testutil.MockProfileStore),
		mailer:   new(testutil.MockMailer),
		events:   new(testutil.MockAuthEvents),
	}

	g := gate.NewService(env.idp, env.profiles, gate.NewSessions(), gate.Options{
		AdminLandingSuffix: "/dashboard",
		ResetContinueURL:   "http://localhost:8080/login/hmo",
		NewDisplayID:       func() string { return "ZX81QW07" },
	})
	h := handlers.NewHandler(g,
		services.NewContactService(env.mailer, "support@example.com"),
		env.profiles,
		env.events,
		handlers.SessionConfig{Secret: testSecret, TTL: time.Hour},
		handlers.SiteConfig{},
	)

	cfg := &config.Config{
		JWTSecret:          testSecret,
		AdminLandingSuffix: "/dashboard",
		AllowedOrigins:     []string{"http://localhost:3000"},
		RateLimit:          1000,
		RateBurst:          1000,
	}
	env.router = gin.New()
	require.NoError(t, routes.SetupRoutes(env.router, h, cfg))
	return env
}

func (e *testEnv) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func session(t *testing.T, uid, role string) *http.Cookie {
	t.Helper()
	token, err := utils.GenerateToken(testSecret, uid, role, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookie, Value: token}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeOutcome(t *testing.T, w *httptest.ResponseRecorder) outcomeBody {
	t.Helper()
	var out outcomeBody
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &out))
	return out
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == utils.SessionCookie {
			return c
		}
	}
	return nil
}

func adaPrincipal() *identity.Principal {
	return &identity.Principal{UID: "uid-ada", Email: "ada@example.com", DisplayName: "Ada Obi", IDToken: "id-token"}
}

// --- auth ---

func TestLogin_RoutedSetsSession(t *testing.T) {
	env := setupEnv(t)
	p := adaPrincipal()

	env.idp.On("SignInWithPassword", mock.Anything, p.Email, "secret").Return(p, nil)
	env.profiles.On("Fetch", mock.Anything, "users", p.UID).Return(&models.RoleRecord{AccApproved: true}, nil)

	w := env.do(http.MethodPost, "/api/v1/auth/user/login", gin.H{"email": p.Email, "password": "secret"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decodeOutcome(t, w)
	assert.Equal(t, "routed", out.Status)
	assert.Equal(t, "/user", out.Redirect)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	uid, role, err := utils.ValidateToken(testSecret, cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, p.UID, uid)
	assert.Equal(t, models.RoleUser, role)
}

func TestLogin_MissingPasswordIsRejectedBeforeProvider(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/hp/login", gin.H{"email": "ada@example.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.idp.AssertNotCalled(t, "SignInWithPassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_DeniedIsForbiddenWithoutSession(t *testing.T) {
	env := setupEnv(t)
	p := adaPrincipal()

	env.idp.On("SignInWithPassword", mock.Anything, p.Email, "secret").Return(p, nil)
	env.idp.On("SignOut", mock.Anything, p.UID).Return(nil).Once()
	env.profiles.On("Fetch", mock.Anything, "admins", p.UID).Return(&models.RoleRecord{Status: "pending"}, nil)

	w := env.do(http.MethodPost, "/api/v1/auth/admin/login", gin.H{"email": p.Email, "password": "secret"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	out := decodeOutcome(t, w)
	assert.Equal(t, "denied", out.Status)
	assert.Equal(t, "inactive", out.Reason)
	assert.Equal(t, "Account Inactive", out.Title)
	assert.Empty(t, out.Redirect)
	assert.Nil(t, sessionCookie(w))
	env.idp.AssertExpectations(t)
}

func TestLogin_ProviderError(t *testing.T) {
	env := setupEnv(t)

	env.idp.On("SignInWithPassword", mock.Anything, "ada@example.com", "nope").
		Return(nil, identity.NewError(identity.CodeUserNotFound))

	w := env.do(http.MethodPost, "/api/v1/auth/hmo/login", gin.H{"email": "ada@example.com", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "No account was found with this email address.", body.Message)
	assert.Equal(t, identity.CodeUserNotFound, decodeOutcome(t, w).Code)
}

func TestLogin_UnknownRole(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/nurse/login", gin.H{"email": "ada@example.com", "password": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogin_StoreFailureIsGeneric(t *testing.T) {
	env := setupEnv(t)
	p := adaPrincipal()

	env.idp.On("SignInWithPassword", mock.Anything, p.Email, "secret").Return(p, nil)
	env.idp.On("SignOut", mock.Anything, p.UID).Return(nil)
	env.profiles.On("Fetch", mock.Anything, "hps", p.UID).Return(nil, errors.New("deadline exceeded"))

	w := env.do(http.MethodPost, "/api/v1/auth/hp/login", gin.H{"email": p.Email, "password": "secret"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, gate.MessageGeneric, decode(t, w).Message)
}

func TestFederatedLogin_HPFirstSignIn(t *testing.T) {
	env := setupEnv(t)
	p := adaPrincipal()

	env.idp.On("VerifyFederatedToken", mock.Anything, "google-token").Return(p, nil)
	env.idp.On("SignOut", mock.Anything, p.UID).Return(nil).Once()
	env.profiles.On("Fetch", mock.Anything, "hps", p.UID).Return(nil, store.ErrNotFound)
	env.profiles.On("Create", mock.Anything, "hps", p.UID, mock.MatchedBy(func(doc *models.ProviderProfile) bool {
		return !doc.AccApproved && doc.DisplayID == "ZX81QW07"
	})).Return(nil).Once()

	w := env.do(http.MethodPost, "/api/v1/auth/hp/federated", gin.H{"id_token": "google-token"})

	assert.Equal(t, http.StatusCreated, w.Code)
	out := decodeOutcome(t, w)
	assert.Equal(t, "created", out.Status)
	assert.Equal(t, "Awaiting Approval", out.Title)
	assert.Empty(t, out.Redirect)
	assert.Nil(t, sessionCookie(w))
	env.idp.AssertExpectations(t)
	env.profiles.AssertExpectations(t)
}

func TestFederatedLogin_PopupClosed(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/user/federated", gin.H{"popup_error": identity.CodePopupClosedByUser})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, gate.FriendlyMessage(identity.CodePopupClosedByUser), decode(t, w).Message)
}

func TestSignup_User(t *testing.T) {
	env := setupEnv(t)
	p := adaPrincipal()

	env.idp.On("CreateAccount", mock.Anything, p.Email, "s3cret!", "Ada Obi").Return(p, nil)
	env.profiles.On("Create", mock.Anything, "users", p.UID, mock.MatchedBy(func(doc *models.UserProfile) bool {
		return doc.AccApproved && doc.Dependants == 2
	})).Return(nil).Once()
	env.idp.On("SendEmailVerification", mock.Anything, p.IDToken).Return(nil).Once()

	w := env.do(http.MethodPost, "/api/v1/auth/user/signup", gin.H{
		"first_name": "Ada",
		"last_name":  "Obi",
		"email":      p.Email,
		"password":   "s3cret!",
		"phone":      "0803",
		"dependants": 2,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "/user", decodeOutcome(t, w).Redirect)
	assert.NotNil(t, sessionCookie(w))
	env.idp.AssertExpectations(t)
	env.profiles.AssertExpectations(t)
}

func TestSignup_WeakPassword(t *testing.T) {
	env := setupEnv(t)

	env.idp.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, identity.NewError(identity.CodeWeakPassword))

	w := env.do(http.MethodPost, "/api/v1/auth/hmo/signup", gin.H{
		"name":           "Lagoon HMO",
		"email":          "ops@lagoon.example",
		"password":       "123",
		"phone":          "0800",
		"address":        "1 Marina",
		"contact_person": "Ada Obi",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, gate.TitleSignUpFailed, decodeOutcome(t, w).Title)
}

func TestSignup_ProviderMissingFields(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/hp/signup", gin.H{"email": "a@b.co", "password": "secret"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.idp.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_AdminNotAvailable(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/admin/signup", gin.H{
		"name": "Root", "email": "root@example.com", "password": "secret",
		"phone": "1", "address": "x", "contact_person": "Root",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/v1/auth/admin/signup", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/v1/auth/nurse/signup", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env.idp.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogout(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env.idp.On("SignOut", mock.Anything, "uid-ada").Return(nil).Once()
	w = env.do(http.MethodPost, "/api/v1/auth/logout", nil, session(t, "uid-ada", models.RoleHMO))

	assert.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
	env.idp.AssertExpectations(t)
}

// --- password reset ---

func TestForgotPassword(t *testing.T) {
	env := setupEnv(t)
	env.idp.On("SendPasswordReset", mock.Anything, "ada@example.com", "http://localhost:8080/login/hmo").Return(nil).Once()

	w := env.do(http.MethodPost, "/api/v1/password/forgot", gin.H{"email": "ada@example.com"})

	assert.Equal(t, http.StatusOK, w.Code)
	env.idp.AssertExpectations(t)

	w = env.do(http.MethodPost, "/api/v1/password/forgot", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPassword_MismatchMakesNoCall(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodPost, "/api/v1/password/reset", gin.H{
		"mode":             gate.ResetMode,
		"oob_code":         "oob-1",
		"new_password":     "first",
		"confirm_password": "second",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Passwords do not match.", decode(t, w).Message)
	env.idp.AssertNotCalled(t, "ConfirmReset", mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword_RequiresResetMode(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodPost, "/api/v1/password/reset", gin.H{
		"mode":             "verifyEmail",
		"oob_code":         "oob-1",
		"new_password":     "fresh-pass",
		"confirm_password": "fresh-pass",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"field":"mode"}`, string(decode(t, w).Data))
	env.idp.AssertNotCalled(t, "ConfirmReset", mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword_ExpiredCode(t *testing.T) {
	env := setupEnv(t)
	env.idp.On("ConfirmReset", mock.Anything, "oob-1", "fresh-pass").Return(identity.NewError(identity.CodeExpiredActionCode))

	w := env.do(http.MethodPost, "/api/v1/password/reset", gin.H{
		"mode":             gate.ResetMode,
		"oob_code":         "oob-1",
		"new_password":     "fresh-pass",
		"confirm_password": "fresh-pass",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, gate.FriendlyMessage(identity.CodeExpiredActionCode), decode(t, w).Message)
}

func TestVerifyResetLink(t *testing.T) {
	env := setupEnv(t)
	env.idp.On("VerifyResetCode", mock.Anything, "oob-1").Return("ada@example.com", nil)

	w := env.do(http.MethodGet, "/api/v1/password/reset?mode=resetPassword&oobCode=oob-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"ada@example.com"}`, string(decode(t, w).Data))

	w = env.do(http.MethodGet, "/api/v1/password/reset?mode=signIn&oobCode=oob-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- contact ---

func TestContact(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodPost, "/api/v1/contact", gin.H{"first_name": "Ada", "email": "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"fields":["last_name","message"]}`, string(decode(t, w).Data))
	env.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	env.mailer.On("Send", "support@example.com", "Ada Obi", "New contact form message", mock.Anything).Return(nil).Once()
	w = env.do(http.MethodPost, "/api/v1/contact", gin.H{
		"first_name": "Ada", "last_name": "Obi", "email": "ada@example.com", "message": "Hello",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	env.mailer.AssertExpectations(t)
}

func TestContact_SendFailure(t *testing.T) {
	env := setupEnv(t)
	env.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("relay down"))

	w := env.do(http.MethodPost, "/api/v1/contact", gin.H{
		"first_name": "Ada", "last_name": "Obi", "email": "ada@example.com", "message": "Hello",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode(t, w).Message, "try again later")
}

// --- profile and admin ---

func TestGetProfile(t *testing.T) {
	env := setupEnv(t)
	env.profiles.On("Fetch", mock.Anything, "hmos", "uid-h").
		Return(&models.RoleRecord{Role: "hmo", DisplayID: "ZX81QW07", AccApproved: true}, nil)
	env.profiles.On("Fetch", mock.Anything, "users", "uid-gone").Return(nil, store.ErrNotFound)

	w := env.do(http.MethodGet, "/api/v1/profile", nil, session(t, "uid-h", models.RoleHMO))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"display_id":"ZX81QW07"`)

	w = env.do(http.MethodGet, "/api/v1/profile", nil, session(t, "uid-gone", models.RoleUser))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminPending(t *testing.T) {
	env := setupEnv(t)
	env.profiles.On("ListPending", mock.Anything, "hmos").
		Return([]models.ProviderProfile{{UID: "h1", Name: "Lagoon HMO"}}, nil)

	w := env.do(http.MethodGet, "/api/v1/admin/pending?role=hmo", nil, session(t, "uid-h", models.RoleHMO))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/api/v1/admin/pending?role=hmo", nil, session(t, "uid-a", models.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)

	var pending []models.ProviderProfile
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "h1", pending[0].UID)

	w = env.do(http.MethodGet, "/api/v1/admin/pending?role=user", nil, session(t, "uid-a", models.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminAuthEvents(t *testing.T) {
	env := setupEnv(t)
	env.events.On("Recent", mock.Anything, 25).
		Return([]models.AuthEvent{{ID: "e1", Kind: models.EventSignedIn}}, nil).Once()
	env.events.On("Recent", mock.Anything, services.DefaultEventLimit).
		Return([]models.AuthEvent{}, nil).Once()

	w := env.do(http.MethodGet, "/api/v1/admin/auth-events?limit=25", nil, session(t, "uid-a", models.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"kind":"signed_in"`)

	w = env.do(http.MethodGet, "/api/v1/admin/auth-events?limit=lots", nil, session(t, "uid-a", models.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
	env.events.AssertExpectations(t)
}

// --- pages ---

func TestPages(t *testing.T) {
	env := setupEnv(t)

	for path, want := range map[string]string{
		"/":                "Health insurance that works for you",
		"/about":           "About us",
		"/contact":         `data-api="/api/v1/contact"`,
		"/hmos":            "For HMOs",
		"/hps":             "For health providers",
		"/privacy":         "Privacy Policy",
		"/terms":           "Terms of Service",
		"/login/hmo":       `/api/v1/auth/hmo/login`,
		"/user_signup":     `/api/v1/auth/user/signup`,
		"/hp_signup":       `/api/v1/auth/hp/signup`,
		"/hmo_signup":      `/api/v1/auth/hmo/signup`,
		"/forgot_password": `/api/v1/password/forgot`,
	} {
		w := env.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), want, path)
	}
}

func TestLoginPage_AdminHasNoSignupLink(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodGet, "/login/admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "_signup")

	w = env.do(http.MethodGet, "/login/nurse", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLandingPage(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodGet, "/hp", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/hp", w.Header().Get("Location"))

	w = env.do(http.MethodGet, "/hp", nil, session(t, "uid-h", models.RoleHMO))
	assert.Equal(t, http.StatusFound, w.Code)

	w = env.do(http.MethodGet, "/admin/dashboard", nil, session(t, "uid-a", models.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Admin dashboard")
}

func TestResetPasswordPage(t *testing.T) {
	env := setupEnv(t)
	env.idp.On("VerifyResetCode", mock.Anything, "good").Return("ada@example.com", nil)
	env.idp.On("VerifyResetCode", mock.Anything, "used").Return("", identity.NewError(identity.CodeInvalidActionCode))

	w := env.do(http.MethodGet, "/hmo_reset_password?mode=resetPassword&oobCode=good", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")
	assert.Contains(t, w.Body.String(), `name="new_password"`)

	w = env.do(http.MethodGet, "/hmo_reset_password?mode=resetPassword&oobCode=used", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or has already been used")
	assert.False(t, strings.Contains(w.Body.String(), `name="new_password"`))
}

func TestNotFoundPage(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}

func TestPing(t *testing.T) {
	env := setupEnv(t)

	w := env.do(http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}
