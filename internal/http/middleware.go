package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/apperr"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/auth"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/domain"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/metrics"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/ratelimit"
)

const userContextKey = "user"

// requireAuth resolves the bearer token to a stored identity and attaches it to the request.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			h.rejectAuth(c, "missing", "Access denied. No token provided.", nil)
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		userID, err := h.tokens.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpired) {
				h.rejectAuth(c, "expired", "Token has expired.", err)
			} else {
				h.rejectAuth(c, "invalid", "Invalid token.", err)
			}
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				h.rejectAuth(c, "unknown_user", "Invalid token. User not found.", err)
				return
			}
			h.respondError(c, err)
			return
		}

		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
		c.Set(userContextKey, user)
		c.Next()
	}
}

func (h *Handler) rejectAuth(c *gin.Context, reason, message string, cause error) {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	h.respondError(c, apperr.Unauthorized(message, cause))
}

// currentUser returns the identity set by requireAuth, or nil on public routes.
func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return auth.UserFromContext(c.Request.Context())
}

// rateLimit rejects clients, keyed by IP, that exceed l's policy. Store failures let the request through.
func (h *Handler) rateLimit(l *ratelimit.Limiter) gin.HandlerFunc {
	if l == nil {
		return func(c *gin.Context) { c.Next() }
	}
	policy := l.Policy()
	return func(c *gin.Context) {
		decision, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			h.logger.WithError(err).WithField("limiter", l.Name()).Error("rate limit store unavailable, allowing request")
		}
		if !decision.Allowed {
			metrics.RateLimitRejectedTotal.WithLabelValues(l.Name()).Inc()
			h.logger.WithFields(logrus.Fields{
				"limiter":   l.Name(),
				"client_ip": c.ClientIP(),
			}).Warn("rate limit exceeded")

			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":    false,
				"message":    "Too many requests. Please try again later.",
				"retryAfter": decision.RetryAfter.Seconds(),
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(policy.Max))
		if err == nil {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		}
		c.Next()
	}
}

// requestLogger logs each request and records its metrics once the handler chain returns.
func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(latency.Seconds())

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    status,
			"latency":   latency.String(),
			"client_ip": c.ClientIP(),
		}
		if user := currentUser(c); user != nil {
			fields["user_id"] = user.ID
		}
		h.logger.WithFields(fields).Info("request")
	}
}
