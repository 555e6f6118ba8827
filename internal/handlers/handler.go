package handlers

import (
	"net/http"

	_ "bloglist/docs"
	"bloglist/internal/logger"
	"bloglist/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     options
	limiter  *loginLimiter
}

type options struct {
	testingRoutes bool
	loginRate     float64
	loginBurst    int
	// nil trusts no proxy, so ClientIP is the socket peer.
	trustedProxies []string
}

// Option tunes optional routes and middleware.
type Option func(*options)

// WithTestingRoutes exposes POST /api/testing/reset.
func WithTestingRoutes() Option {
	return func(o *options) { o.testingRoutes = true }
}

// WithLoginRateLimit throttles POST /api/login per client IP. A zero rate disables it.
func WithLoginRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		o.loginRate = perSecond
		o.loginBurst = burst
	}
}

// WithTrustedProxies lists the proxy IPs/CIDRs whose X-Forwarded-For is believed.
func WithTrustedProxies(proxies []string) Option {
	return func(o *options) { o.trustedProxies = proxies }
}

// NewHandler constructs a new HTTP handler with dependencies. A nil logger discards output.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{services: services, log: log}
	for _, opt := range opts {
		opt(&h.opts)
	}
	if h.opts.loginRate > 0 {
		h.limiter = newLoginLimiter(h.opts.loginRate, h.opts.loginBurst)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(h.opts.trustedProxies); err != nil {
		h.log.Errorw("invalid trusted proxies, trusting none", "proxies", h.opts.trustedProxies, "err", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.CustomRecovery(h.recoverPanic))
	router.Use(h.requestLogger)
	router.Use(h.errorHandler)
	router.Use(h.tokenExtractor)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	api := router.Group("/api")
	{
		h.registerLoginRoutes(api)
		h.registerUserRoutes(api)
		h.registerBlogRoutes(api)
		if h.opts.testingRoutes {
			h.registerTestingRoutes(api)
		}
	}

	return router
}

func (h *Handler) registerLoginRoutes(api *gin.RouterGroup) {
	if h.limiter != nil {
		api.POST("/login", h.rateLimitLogin, h.login)
		return
	}
	api.POST("/login", h.login)
}

func (h *Handler) registerUserRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.POST("", h.register)
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
	}
}

func (h *Handler) registerBlogRoutes(api *gin.RouterGroup) {
	blogs := api.Group("/blogs")
	{
		blogs.GET("", h.listBlogs)
		blogs.GET("/:id", h.getBlog)
		blogs.POST("", h.userExtractor, h.createBlog)
		blogs.PUT("/:id", h.userExtractor, h.updateBlog)
		blogs.DELETE("/:id", h.userExtractor, h.deleteBlog)
		blogs.POST("/:id/likes", h.likeBlog)
		blogs.POST("/:id/comments", h.commentBlog)
	}
}

func (h *Handler) registerTestingRoutes(api *gin.RouterGroup) {
	testingGroup := api.Group("/testing")
	{
		testingGroup.POST("/reset", h.reset)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
