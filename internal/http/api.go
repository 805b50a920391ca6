package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/auth"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/ratelimit"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/service"
)

// Limiters holds the per-route rate limiters. A nil limiter disables limiting for its route.
type Limiters struct {
	Signup  *ratelimit.Limiter
	Login   *ratelimit.Limiter
	Post    *ratelimit.Limiter
	Like    *ratelimit.Limiter
	Comment *ratelimit.Limiter
}

// Options configures a Handler.
type Options struct {
	Users    service.UserService
	Posts    service.PostService
	Tokens   *auth.TokenService
	Limiters Limiters
	Logger   logrus.FieldLogger
	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string
	// Development exposes internal error details in responses.
	Development bool
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users       service.UserService
	posts       service.PostService
	tokens      *auth.TokenService
	limiters    Limiters
	logger      logrus.FieldLogger
	corsOrigins map[string]struct{}
	development bool
}

func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	origins := make(map[string]struct{}, len(opts.CORSOrigins))
	for _, o := range opts.CORSOrigins {
		origins[o] = struct{}{}
	}
	return &Handler{
		users:       opts.Users,
		posts:       opts.Posts,
		tokens:      opts.Tokens,
		limiters:    opts.Limiters,
		logger:      logger,
		corsOrigins: origins,
		development: opts.Development,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogger(), gin.CustomRecovery(h.handlePanic), h.corsMiddleware())
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	router.GET("/", h.banner)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
		})

		users := api.Group("/auth")
		users.POST("/signup", h.rateLimit(h.limiters.Signup), h.signup)
		users.POST("/login", h.rateLimit(h.limiters.Login), h.login)
		users.GET("/me", h.requireAuth(), h.me)
		users.PUT("/profile", h.requireAuth(), h.updateProfile)
		users.GET("/user/:id", h.getUser)
		users.GET("/search", h.searchUsers)

		posts := api.Group("/posts")
		posts.GET("", h.listPosts)
		posts.POST("", h.requireAuth(), h.rateLimit(h.limiters.Post), h.createPost)
		posts.GET("/search", h.searchPosts)
		posts.GET("/liked", h.requireAuth(), h.likedPosts)
		posts.GET("/bookmarks", h.requireAuth(), h.bookmarkedPosts)
		posts.GET("/user/:userId", h.userPosts)
		posts.GET("/:id", h.getPost)
		posts.PUT("/:id", h.requireAuth(), h.updatePost)
		posts.DELETE("/:id", h.requireAuth(), h.deletePost)
		posts.POST("/:id/like", h.requireAuth(), h.rateLimit(h.limiters.Like), h.toggleLike)
		posts.POST("/:id/bookmark", h.requireAuth(), h.toggleBookmark)
		posts.POST("/:id/comment", h.requireAuth(), h.rateLimit(h.limiters.Comment), h.addComment)
		// The router requires one wildcard name per segment, so the post id is :id here too.
		posts.DELETE("/:id/comment/:commentId", h.requireAuth(), h.deleteComment)
	}
}

func (h *Handler) banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "LinkedIn Clone API running",
		"version": "1.0.0",
		"endpoints": gin.H{
			"auth":  "/api/auth",
			"posts": "/api/posts",
		},
	})
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := h.corsOrigins[origin]; ok {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Retry-After")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
