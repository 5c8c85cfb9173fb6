// admin.go - privacy-conscious admin dashboard for contact messages and visits
package main

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbabazielroy/portfolio/internal/config"
	"github.com/mbabazielroy/portfolio/internal/logging"
	"github.com/mbabazielroy/portfolio/internal/store"
)

const (
	sessionCookie = "admin_session"
	sessionIssuer = "portfolio-admin"
)

// sessionManager checks admin credentials and signs session tokens.
type sessionManager struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
}

func newSessionManager(cfg *config.Config) (*sessionManager, error) {
	s := &sessionManager{
		username: cfg.AdminUsername,
		secret:   []byte(cfg.SessionSecret),
		ttl:      time.Duration(cfg.SessionHours) * time.Hour,
	}

	// A random secret invalidates sessions on restart, which is acceptable
	// for a single admin.
	if len(s.secret) == 0 {
		s.secret = []byte(randomToken())
	}

	switch {
	case cfg.AdminPassword == "":
		logging.Warn().Msg("ADMIN_PASSWORD not set, admin login is disabled")
	case strings.HasPrefix(cfg.AdminPassword, "$2"):
		// Already a bcrypt hash.
		s.passwordHash = []byte(cfg.AdminPassword)
	default:
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
		s.passwordHash = hash
	}

	logging.Info().Msg("admin access available at /admin/login")
	return s, nil
}

func (s *sessionManager) authenticate(username, password string) bool {
	if len(s.passwordHash) == 0 {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
	return userOK && passOK
}

func (s *sessionManager) issue() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   s.username,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

func (s *sessionManager) validate(tokenString string) (*jwt.RegisteredClaims, error) {
	if tokenString == "" {
		return nil, errors.New("session token is empty")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithSubject(s.username))
	if err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	return claims, nil
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logging.Fatal().Err(err).Msg("failed to generate random token")
	}
	return hex.EncodeToString(b)
}

// adminAuth redirects to the login page unless the session cookie is valid.
func (a *app) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(sessionCookie)
		if _, err := a.sessions.validate(token); err != nil {
			if strings.Contains(c.GetHeader("Accept"), "application/json") || c.Request.Method != http.MethodGet {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// visitorTracking records page views with hashed IPs. Static files, admin
// pages and clients sending DNT are skipped.
func (a *app) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/api/") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") ||
			path == "/metrics" {
			c.Next()
			return
		}

		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.store.RecordVisit(ctx, ip, ua, path); err != nil {
				logging.Error().Err(err).Msg("failed to record visitor")
			}
		}()
		c.Next()
	}
}

func (a *app) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		visitor := a.store.HashIP(c.ClientIP())
		if !a.sessions.authenticate(c.PostForm("username"), c.PostForm("password")) {
			logging.Warn().Str("visitor", visitor).Msg("failed admin login attempt")
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		token, err := a.sessions.issue()
		if err != nil {
			logging.Error().Err(err).Msg("failed to issue admin session")
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Login failed"})
			return
		}

		secure := gin.Mode() == gin.ReleaseMode
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(sessionCookie, token, int(a.sessions.ttl.Seconds()), "/admin", "", secure, true)
		logging.Info().Str("visitor", visitor).Msg("admin login successful")
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(sessionCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(a.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		ctx := c.Request.Context()
		stats, err := a.store.Stats(ctx)
		if err != nil {
			logging.Error().Err(err).Msg("failed to load admin stats")
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		messages, err := a.store.ListMessages(ctx, c.Query("unread") == "1")
		if err != nil {
			logging.Error().Err(err).Msg("failed to load messages")
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load messages"})
			return
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"messages": messages,
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			logging.Error().Err(err).Msg("failed to load admin stats")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.POST("/messages/:id/read", func(c *gin.Context) {
		a.messageAction(c, a.store.MarkRead, "Message marked as read")
	})

	admin.DELETE("/messages/:id", func(c *gin.Context) {
		a.messageAction(c, a.store.DeleteMessage, "Message deleted")
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			logging.Error().Err(err).Msg("failed to load visitors")
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load visitors"})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		retention := time.Duration(a.cfg.VisitorRetentionDays) * 24 * time.Hour
		removed, err := a.store.CleanupVisitors(c.Request.Context(), retention)
		if err != nil {
			logging.Error().Err(err).Msg("visitor cleanup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		logging.Info().Str("visitor", a.store.HashIP(c.ClientIP())).Msg("admin stats exported")
		c.JSON(http.StatusOK, stats)
	})
}

func (a *app) messageAction(c *gin.Context, action func(context.Context, string) error, done string) {
	id := c.Param("id")
	err := action(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
	case err != nil:
		logging.Error().Err(err).Str("id", id).Msg("message update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update message"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": done})
	}
}
