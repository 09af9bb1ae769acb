package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bizaudit-backend/internal/audits"
	"bizaudit-backend/internal/llm"
	"bizaudit-backend/internal/llm/anthropic"
	"bizaudit-backend/internal/notify"
	"bizaudit-backend/internal/ratelimit"
	"bizaudit-backend/internal/reports"
	"bizaudit-backend/internal/shared/config"
	"bizaudit-backend/internal/shared/metrics"
	"bizaudit-backend/internal/shared/server/middleware"
	"bizaudit-backend/internal/shared/server/respond"
	"bizaudit-backend/internal/shared/storage/db"
	"bizaudit-backend/internal/shared/storage/redisconn"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
// External backends are optional: without Postgres or Redis the server runs
// on in-memory stores, which is how tests and local dev use it.
func NewRouter(cfg config.Config, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.CORSAllowOrigins),
	)

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Warn("database unavailable, using memory stores", zap.Error(err))
		} else if err := db.RunMigrations(context.Background(), conn); err != nil {
			log.Warn("migrations failed, using memory stores", zap.Error(err))
			_ = conn.Close()
		} else {
			sqlDB = conn
		}
	}

	var auditRepo audits.Repo
	var reportRepo reports.Repo
	if sqlDB != nil {
		auditRepo = &audits.PGRepo{DB: sqlDB}
		reportRepo = &reports.PGRepo{DB: sqlDB}
	} else {
		auditRepo = audits.NewMemoryRepo()
		reportRepo = reports.NewMemoryRepo()
	}

	var limitStore ratelimit.Store
	if cfg.RedisURL != "" {
		client, err := redisconn.Connect(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, using memory rate limit store", zap.Error(err))
			limitStore = ratelimit.NewMemoryStore()
		} else {
			limitStore = ratelimit.NewRedisStore(client)
		}
	} else {
		limitStore = ratelimit.NewMemoryStore()
	}

	var llmClient llm.Client
	if cfg.Anthropic.APIKey != "" {
		client, err := anthropic.NewClient(cfg.Anthropic, log)
		if err != nil {
			log.Warn("llm client disabled", zap.Error(err))
		} else {
			llmClient = client
		}
	} else {
		log.Warn("no Anthropic API key configured, report generation will fail")
	}

	var notifier audits.Notifier = notify.Noop{}
	if cfg.Notify.Enabled {
		n, err := notify.NewSESNotifier(context.Background(), cfg.Notify, log)
		if err != nil {
			log.Warn("notifications disabled", zap.Error(err))
		} else {
			notifier = n
		}
	}

	svc := &audits.Service{
		Repo:     auditRepo,
		Reports:  reportRepo,
		LLM:      llmClient,
		Limiter:  ratelimit.New(limitStore, cfg.RateLimit),
		Notifier: notifier,
		Model:    cfg.Anthropic.Model,
		MinWait:  cfg.Report.MinWait,
		Log:      log,
	}
	handler := audits.NewHandler(svc)
	pollLimiter := middleware.NewPollLimiter(cfg.Report.PollMinInterval)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())
	api.Use(pollMiddlewareFor(pollLimiter))
	handler.RegisterRoutes(api)

	return r
}

// pollMiddlewareFor throttles only the report polling endpoint; other routes
// pass through untouched.
func pollMiddlewareFor(l *middleware.PollLimiter) gin.HandlerFunc {
	limited := middleware.PollLimit(l, "id")
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet && c.FullPath() == "/api/v1/audits/:id/report" {
			limited(c)
			return
		}
		c.Next()
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
