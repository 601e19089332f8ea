// Package stubserver is an in-memory implementation of the REST surface the
// client consumes, used for local development and tests in place of the real
// backend. No external services: accounts and posts live in process memory.
package stubserver

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/anushkaEsdev/alumni-client/internal/models"
)

type Config struct {
	// JWTSecret signs issued tokens. Required.
	JWTSecret string
	// TokenLifetime defaults to 24h.
	TokenLifetime time.Duration
	// RateLimit enables the per-IP limiter; off for tests.
	RateLimit bool
	Logger    *logrus.Logger
}

type Server struct {
	cfg    Config
	store  *memStore
	router *gin.Engine
	log    *logrus.Logger
}

func New(cfg Config) *Server {
	if cfg.TokenLifetime == 0 {
		cfg.TokenLifetime = 24 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	s := &Server{
		cfg:   cfg,
		store: newMemStore(),
		log:   cfg.Logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.RateLimit {
		router.Use(rateLimitMiddleware(newIPRateLimiter(1, 60)))
	}

	api := router.Group("/api")
	{
		api.POST("/auth/register", s.register)
		api.POST("/auth/login", s.login)
		api.POST("/auth/forgot-password", s.forgotPassword)
		api.POST("/auth/reset-password/:token", s.resetPassword)
		api.PUT("/auth/profile", s.authMiddleware(), s.updateProfile)
		api.PUT("/auth/password", s.authMiddleware(), s.updatePassword)

		api.GET("/posts", s.listPosts)
		api.POST("/posts", s.authMiddleware(), s.createPost)
		api.GET("/posts/:id", s.getPost)
		api.PUT("/posts/:id", s.authMiddleware(), s.updatePost)
		api.DELETE("/posts/:id", s.authMiddleware(), s.deletePost)
		api.POST("/posts/:id/like", s.authMiddleware(), s.likePost)
		api.DELETE("/posts/:id/like", s.authMiddleware(), s.unlikePost)
		api.POST("/posts/:id/comments", s.authMiddleware(), s.addComment)
		api.PUT("/posts/:id/comments/:commentId", s.authMiddleware(), s.updateComment)
		api.DELETE("/posts/:id/comments/:commentId", s.authMiddleware(), s.deleteComment)
	}

	s.router = router
	return s
}

// Handler exposes the router for http.Server and httptest.
func (s *Server) Handler() http.Handler { return s.router }

func sendError(c *gin.Context, status int, message string, err error) {
	errResponse := models.ErrorResponse{
		Status:  status,
		Message: message,
	}
	if err != nil {
		errResponse.Error = err.Error()
	}
	c.JSON(status, errResponse)
}

func sendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, models.SuccessResponse{
		Status: status,
		Data:   data,
	})
}

func (s *Server) issueToken(u models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"exp":     time.Now().Add(s.cfg.TokenLifetime).Unix(),
	})
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			sendError(c, http.StatusUnauthorized, "Authorization header is required", nil)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			sendError(c, http.StatusUnauthorized, "Invalid token format. Use 'Bearer <token>'", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			sendError(c, http.StatusUnauthorized, "Invalid or expired token", err)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			sendError(c, http.StatusInternalServerError, "Failed to parse token claims", nil)
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			sendError(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// currentAccount resolves the authenticated account set by authMiddleware.
func (s *Server) currentAccount(c *gin.Context) (account, bool) {
	id := c.GetString("user_id")
	acc, ok := s.store.AccountByID(id)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Account no longer exists", nil)
		c.Abort()
	}
	return acc, ok
}

type ipRateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	b        int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{
		visitors: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()
	limiter, exists := i.visitors[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.visitors[ip] = limiter
	}
	return limiter
}

func rateLimitMiddleware(rl *ipRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getLimiter(c.ClientIP()).Allow() {
			sendError(c, http.StatusTooManyRequests, "Rate limit exceeded", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
