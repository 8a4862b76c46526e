// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - The captive-portal contract mounted where unmatched traffic lands
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/lanbox-dev/piratebox/internal/config"
	"github.com/lanbox-dev/piratebox/internal/http/handlers"
	"github.com/lanbox-dev/piratebox/internal/http/middleware"
	"github.com/lanbox-dev/piratebox/internal/services"
)

// jsonBodyLimit caps request bodies on JSON endpoints. File uploads are
// exempt; they stream through their own ceiling in the file service.
const jsonBodyLimit = 64 << 10 // 64 KiB

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, the captive-portal surface, and the public API.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Metrics
//  6. Rate limiter (per client IP)
//  7. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 6) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	// 7) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps
		// tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers. No HSTS on a plain-HTTP LAN appliance.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Dependency injection: services ← db + config
	fileSvc := &services.FileService{
		DB:             db,
		FilesDir:       cfg.FilesDir,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}
	chatSvc := &services.ChatService{
		DB:             db,
		MaxNicknameLen: cfg.MaxNicknameLen,
		MaxMessageLen:  cfg.MaxMessageLen,
	}
	forumSvc := &services.ForumService{
		DB:                db,
		MaxNicknameLen:    cfg.MaxNicknameLen,
		MaxMessageLen:     cfg.MaxMessageLen,
		MaxThreadTitleLen: cfg.MaxThreadTitleLen,
	}

	fh := handlers.NewFileHandlers(fileSvc)
	ch := handlers.NewChatHandlers(chatSvc)
	foh := handlers.NewForumHandlers(forumSvc)
	cph := handlers.NewCaptiveHandlers(cfg.AppName)

	// Captive portal surface. The fallback owns everything unmatched, which
	// is exactly where OS probes land.
	r.GET("/", cph.Home)
	r.GET("/captive", cph.Splash)
	r.GET("/captive/ack", cph.Ack)
	r.POST("/captive/ack", cph.Ack)
	r.NoRoute(cph.Fallback)
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Downloads live outside the API group: no gzip (blobs are often already
	// compressed) and no JSON body limit.
	r.GET("/files/:id/download", fh.Download)

	// Public API. Responses are gzipped; JSON request bodies are capped.
	api := r.Group("/api")
	api.Use(gzip.Gzip(gzip.DefaultCompression))
	{
		// Files. The upload route must not get the JSON body cap.
		api.POST("/files", fh.Upload)
		api.GET("/files", fh.List)

		// Chat
		chat := api.Group("/chat", limitBody(jsonBodyLimit))
		chat.POST("/messages", ch.Post)
		chat.GET("/messages", ch.List)

		// Forum
		forum := api.Group("/forum", limitBody(jsonBodyLimit))
		forum.POST("/threads", foh.CreateThread)
		forum.GET("/threads", foh.ListThreads)
		forum.GET("/threads/:id", foh.GetThread)
		forum.GET("/threads/:id/posts", foh.ListPosts)
		forum.POST("/threads/:id/posts", foh.Reply)
	}
}

// limitBody returns a Gin middleware that caps the request body size using
// http.MaxBytesReader. Requests exceeding the cap will cause downstream body
// reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
