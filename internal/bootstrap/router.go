package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/showcase-labs/showcase-backend/internal/api/http"
	apimw "github.com/showcase-labs/showcase-backend/internal/api/http/middleware"
	authhttp "github.com/showcase-labs/showcase-backend/internal/auth/http"
	authmw "github.com/showcase-labs/showcase-backend/internal/auth/middleware"
	authservice "github.com/showcase-labs/showcase-backend/internal/auth/service"
	projectshttp "github.com/showcase-labs/showcase-backend/internal/projects/http"
	projectservice "github.com/showcase-labs/showcase-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For / X-Real-IP; nil trusts none.
	TrustedProxies []string

	Log      *zap.Logger
	DB       httpapi.Pinger
	Projects *projectservice.ProjectService
	Auth     *authservice.AuthService
	Tokens   authmw.Verifier

	// LoginLimiter guards POST /login; nil disables rate limiting.
	LoginLimiter *apimw.IPRateLimiter
	// Registry receives the HTTP collectors and backs /metrics. A fresh
	// registry is used when nil.
	Registry *prometheus.Registry
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	log := dep.Log
	if log == nil {
		log = zap.NewNop()
	}
	reg := dep.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := gin.New()
	// gin trusts every proxy by default, which would let callers pick their
	// own ClientIP and dodge the per-IP login limit.
	if err := r.SetTrustedProxies(dep.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(apimw.RequestIDMiddleware(log))
	r.Use(apimw.NewMetrics(reg).Handler())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB).RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	var loginGuards []gin.HandlerFunc
	if dep.LoginLimiter != nil {
		loginGuards = append(loginGuards, dep.LoginLimiter.Middleware())
	}
	authhttp.New(dep.Auth, log).Register(r, loginGuards...)

	projectsHandler := projectshttp.New(dep.Projects, log)
	projectsHandler.Register(r.Group("/projects"), authmw.RequireToken(dep.Tokens))

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
