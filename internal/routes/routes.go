package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"health-insurance-web/internal/config"
	"health-insurance-web/internal/handlers"
	"health-insurance-web/internal/middleware"
	"health-insurance-web/internal/models"
	"health-insurance-web/internal/pages"
	"health-insurance-web/pkg/utils"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) error {
	tmpl, err := pages.Load()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/ping", func(c *gin.Context) {
		utils.APIResponse(c, http.StatusOK, true, "Server OK!", nil)
	})

	// Pages
	r.GET("/", h.Page("home.html", "Home"))
	r.GET("/about", h.Page("about.html", "About"))
	r.GET("/contact", h.Page("contact.html", "Contact"))
	r.GET("/hmos", h.Page("hmos.html", "HMOs"))
	r.GET("/hps", h.Page("hps.html", "Health Providers"))
	r.GET("/privacy", h.Page("privacy.html", "Privacy Policy"))
	r.GET("/terms", h.Page("terms.html", "Terms of Service"))

	r.GET("/login/:role", h.LoginPage)
	r.GET("/user_signup", h.UserSignupPage)
	r.GET("/hp_signup", h.ProviderSignupPage(models.RoleHP))
	r.GET("/hmo_signup", h.ProviderSignupPage(models.RoleHMO))
	r.GET("/forgot_password", h.Page("forgot_password.html", "Forgot password"))
	r.GET("/hmo_reset_password", h.ResetPasswordPage)

	r.GET("/user", h.LandingPage(models.RoleUser))
	r.GET("/hp", h.LandingPage(models.RoleHP))
	r.GET("/hmo", h.LandingPage(models.RoleHMO))
	r.GET("/admin"+cfg.AdminLandingSuffix, h.LandingPage(models.RoleAdmin))

	r.NoRoute(h.NotFoundPage)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimit, cfg.RateBurst))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/:role/login", h.Login)
			auth.POST("/:role/federated", h.FederatedLogin)
			auth.POST("/:role/signup", h.Signup)
			auth.POST("/logout", middleware.AuthMiddleware(cfg.JWTSecret), h.Logout)
		}

		password := api.Group("/password")
		{
			password.POST("/forgot", h.ForgotPassword)
			password.GET("/reset", h.VerifyResetLink)
			password.POST("/reset", h.ResetPassword)
		}

		api.POST("/contact", h.SubmitContact)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			protected.GET("/profile", h.GetProfile)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.GET("/pending", h.ListPending)
				admin.GET("/auth-events", h.ListAuthEvents)
			}
		}
	}

	return nil
}
