package endpoint

import (
	"net/http"

	"github.com/ariebrainware/alert-board/middleware"
	"github.com/ariebrainware/alert-board/observability"
	"github.com/ariebrainware/alert-board/realtime"
	"github.com/ariebrainware/alert-board/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// RouterOptions wires optional collaborators into the router.
type RouterOptions struct {
	Hub            *realtime.Hub
	Metrics        *observability.Metrics
	LoginRateLimit middleware.RateLimitConfig
	// MetricsTokenEnv names the env var holding the /metrics bearer token.
	MetricsTokenEnv string
	// DisableRequestLog drops gin's access log, for tests.
	DisableRequestLog bool
}

// NewRouter builds the web pages, the JSON API and the operational routes
// over db.
func NewRouter(db *gorm.DB, opts RouterOptions) (*gin.Engine, error) {
	if opts.Hub == nil {
		opts.Hub = realtime.NewHub(opts.Metrics)
	}

	r := gin.New()
	if err := web.Install(r); err != nil {
		return nil, err
	}

	if !opts.DisableRequestLog {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.EndpointCallLogger())
	if opts.Metrics != nil {
		r.Use(middleware.PrometheusMiddleware(opts.Metrics))
		tokenEnv := opts.MetricsTokenEnv
		if tokenEnv == "" {
			tokenEnv = "METRICS_TOKEN"
		}
		r.GET("/metrics", middleware.RequireBearerToken(tokenEnv), gin.WrapH(promhttp.Handler()))
	}
	r.NoRoute(NotFound)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, defaultLoginRedirect)
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	loginLimiter := middleware.RateLimiter(opts.LoginRateLimit)

	// Web pages
	r.GET(middleware.LoginURL, LoginPage)
	r.POST(middleware.LoginURL, loginLimiter, LoginSubmit)
	r.POST("/accounts/logout/", LogoutSubmit)

	pages := r.Group("/")
	pages.Use(middleware.RequireWebLogin())
	{
		pages.GET("/alerts/", AlertsPage)
		pages.GET("/alerts/:id/", AlertDetailPage)
		pages.GET("/locations/", LocationsPage)
		pages.GET("/locations/:id/", LocationDetailPage)
	}

	// Public API
	r.POST("/signup", Signup)
	r.POST("/login", loginLimiter, Login)
	r.GET("/token/validate", ValidateToken)

	auth := r.Group("/")
	auth.Use(middleware.ValidateLoginToken())
	{
		auth.DELETE("/logout", Logout)
		auth.GET("/user", GetCurrentUser)
		auth.PATCH("/user", UpdateUser)
		auth.GET("/ws/alerts", AlertsWS(opts.Hub))

		api := auth.Group("/api")
		api.GET("/alerts/", ListAlerts)
		api.POST("/alerts/", CreateAlert(opts.Hub, opts.Metrics))
		api.GET("/alerts/:id/", GetAlert)

		api.GET("/locations/", ListLocations)
		api.POST("/locations/", CreateLocation)
		api.GET("/locations/nearby/", NearbyLocations)
		api.GET("/locations/:id/", GetLocation)
		api.GET("/locations/:id/alerts/", ListLocationAlerts)

		api.GET("/profile/", GetProfile)
		api.PATCH("/profile/", UpdateProfile)
		api.GET("/profile/alerts/", ProfileAlerts)
	}

	return r, nil
}
