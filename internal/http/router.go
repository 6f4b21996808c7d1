// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, access logging with redaction, panic recovery,
// metrics, CORS, security headers, compression and the session gate.
//
//	@title						StockRakh API
//	@version					1.0
//	@description				Auto-parts inventory: parts, stock levels, out-of-stock reordering and images.
//	@BasePath					/api
//	@securityDefinitions.apikey	SessionCookie
//	@in							header
//	@name						Cookie
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/stockrakh/stockrakh/docs"
	"github.com/stockrakh/stockrakh/internal/config"
	"github.com/stockrakh/stockrakh/internal/domain"
	"github.com/stockrakh/stockrakh/internal/http/handlers"
	"github.com/stockrakh/stockrakh/internal/http/middleware"
	"github.com/stockrakh/stockrakh/internal/imagestore"
	"github.com/stockrakh/stockrakh/internal/imaging"
	"github.com/stockrakh/stockrakh/internal/repo"
	"github.com/stockrakh/stockrakh/internal/services"
)

// jsonBodyLimit caps every non-upload request body.
const jsonBodyLimit = 1 << 20

// sessionRepoShim adapts the repository free functions to the
// services.SessionRepo interface expected by the AuthService.
type sessionRepoShim struct{}

// CreateSession proxies repo.CreateSession.
func (sessionRepoShim) CreateSession(ctx context.Context, db *gorm.DB, token, userID string, expiresAt time.Time) (*domain.Session, error) {
	return repo.CreateSession(ctx, db, token, userID, expiresAt)
}

// GetSessionByToken proxies repo.GetSessionByToken.
func (sessionRepoShim) GetSessionByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Session, error) {
	return repo.GetSessionByToken(ctx, db, token)
}

// DeleteSessionByToken proxies repo.DeleteSessionByToken.
func (sessionRepoShim) DeleteSessionByToken(ctx context.Context, db *gorm.DB, token string) error {
	return repo.DeleteSessionByToken(ctx, db, token)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. AccessLog: request-scoped logger, redacted access line
//  4. Recovery: capture panics after logger
//  5. Body size limiter (uploads get their own cap)
//  6. Metrics
//  7. Idempotency-Key validation
//  8. CORS and Security headers
//  9. gzip
func RegisterRoutes(r *gin.Engine, db *gorm.DB, images imagestore.Store, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	api := cfg.APIBasePath
	if api == "/" {
		api = ""
	}
	uploadPath := api + "/upload/image"

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(serviceName(cfg)))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.AccessLog(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Body size limits
	r.Use(limitBody(jsonBodyLimit, map[string]int64{
		uploadPath: uploadLimit(cfg.Images.MaxUpload),
	}))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency-Key shape check; replay lives in the part service
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}))

	// 8) CORS posture and security headers
	r.Use(corsMiddleware(cfg.CORS))
	var mediaPrefix string
	local, isLocal := images.(*imagestore.Local)
	if isLocal && strings.HasPrefix(local.BaseURL, "/") {
		mediaPrefix = local.BaseURL
	}
	cacheable := []string{"/swagger"}
	uncompressed := []string{"/metrics"}
	if mediaPrefix != "" {
		cacheable = append(cacheable, mediaPrefix)
		uncompressed = append(uncompressed, mediaPrefix)
	}
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:        cfg.Security.EnableHSTS,
		HSTSMaxAge:        cfg.Security.HSTSMaxAge,
		NoStore:           true,
		CacheablePrefixes: cacheable,
		EnablePolicy:      true,
	}))

	// 9) Compress JSON and text; images, PDFs and metrics are left alone
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedExtensions([]string{".png", ".jpg", ".jpeg", ".webp", ".gif", ".pdf"}),
		gzip.WithExcludedPaths(uncompressed),
	))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness / readiness
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/ready", func(c *gin.Context) {
		if err := repo.Ping(c.Request.Context(), db); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("readiness check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Locally stored images are served straight from disk.
	if mediaPrefix != "" {
		r.Static(mediaPrefix, local.Dir)
	}

	// Dependency injection: services ← repo/db/image host
	authCfg := cfg.Auth
	if cfg.IsProduction() {
		authCfg.CookieSecure = true
	}
	authSvc := services.NewAuthService(db, sessionRepoShim{}, authCfg)
	querySvc := services.NewQueryService(db, cfg.Pagination)
	partSvc := services.NewPartService(db, images, cfg.IdempotencyTTL)
	sheetSvc := services.NewOrderSheetService(db)

	imgOpts := imaging.DefaultOptions()
	if cfg.Images.MaxDimension > 0 {
		imgOpts.MaxDimension = cfg.Images.MaxDimension
	}
	if cfg.Images.JPEGQuality > 0 {
		imgOpts.Quality = cfg.Images.JPEGQuality
	}

	h := handlers.New(authSvc, querySvc, partSvc, sheetSvc, images, handlers.Options{
		CookieName:     authCfg.CookieName,
		CookieSecure:   authCfg.CookieSecure,
		UploadMaxBytes: cfg.Images.MaxUpload,
		Imaging:        imgOpts,
	})

	// Public API
	pub := groupWithPrefix(r, api)
	{
		pub.POST("/auth/login", h.Login)
		pub.POST("/auth/logout", h.Logout)
		pub.GET("/auth/me", h.Me)
	}

	// Session-gated API
	priv := pub.Group("", middleware.RequireAuth(authSvc, authCfg.CookieName))
	{
		priv.GET("/parts", h.ListParts)
		priv.POST("/parts", h.CreatePart)
		priv.GET("/parts/search", h.SearchParts)
		priv.GET("/parts/out-of-stock", h.OutOfStock)
		priv.GET("/parts/check-number", h.CheckPartNumber)
		priv.POST("/parts/order-sheet", h.OrderSheet)
		priv.GET("/parts/:id", h.GetPart)
		priv.PUT("/parts/:id", h.UpdatePart)
		priv.DELETE("/parts/:id", h.DeletePart)

		priv.POST("/upload/image", h.UploadImage)

		priv.GET("/dashboard/stats", h.DashboardStats)
	}
}

func serviceName(cfg config.Config) string {
	if cfg.OTEL.ServiceName != "" {
		return cfg.OTEL.ServiceName
	}
	return "stockrakh"
}

// corsMiddleware allows any origin without credentials when no allowlist is
// configured (same-origin deployments). With an allowlist the session cookie
// may travel cross-origin.
func corsMiddleware(cc config.CORSConfig) gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.HeaderIdempotencyKey, "If-None-Match"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "Content-Disposition", "ETag", "Idempotent-Replayed"},
		MaxAge:        12 * time.Hour,
	}
	if len(cc.AllowedOrigins) == 0 {
		base.AllowAllOrigins = true
		return cors.New(base)
	}
	base.AllowOrigins = cc.AllowedOrigins
	base.AllowCredentials = true
	return cors.New(base)
}

// uploadLimit leaves room for multipart framing on top of the file cap.
func uploadLimit(maxFile int64) int64 {
	if maxFile <= 0 {
		maxFile = 10 << 20
	}
	return maxFile + 1<<20
}

// limitBody caps request bodies with http.MaxBytesReader. Routes listed in
// overrides (by full route path) get their own cap; everything else gets def.
// Reads past the cap fail downstream.
func limitBody(def int64, overrides map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxBytes := def
		if n, found := overrides[c.FullPath()]; found {
			maxBytes = n
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
