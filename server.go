package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/handlers"
	"bitbucket.org/mmdatafocus/distribution_backend/middlewares"
	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so the platform considers the revision healthy.
	// Until DB/Redis are ready, app endpoints return 503.
	r := gin.New()
	r.Use(middlewares.CorrelationIdMiddleware())
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production require an explicit allowlist; allow all elsewhere.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "X-Correlation-Id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Optional rate limiting.
	// Env: RATE_LIMIT_ENABLED, RATE_LIMIT_WINDOW_SECONDS, RATE_LIMIT_MAX_REQUESTS
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDRESS")})
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/login", handlers.Login)

	auth := api.Group("")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/catalog", handlers.GetCatalog)
		auth.GET("/skus", handlers.GetSkus)
		auth.GET("/skus/:id", handlers.GetSku)
		auth.GET("/skus/:id/price", handlers.GetSkuPrice)

		auth.GET("/discounts", handlers.GetDiscounts)
		auth.GET("/discounts/:id", handlers.GetDiscount)
		auth.GET("/free-issues", handlers.GetFreeIssues)
		auth.GET("/free-issues/:id", handlers.GetFreeIssue)

		auth.GET("/zones", handlers.GetZones)
		auth.GET("/regions", handlers.GetRegions)
		auth.GET("/territories", handlers.GetTerritories)

		auth.POST("/purchase-orders", handlers.CreatePurchaseOrder)
		auth.GET("/purchase-orders", handlers.GetPurchaseOrders)
		auth.GET("/purchase-orders/next-number", handlers.GetNextPurchaseOrderNumber)
		auth.GET("/purchase-orders/uninvoiced", handlers.GetUninvoicedPurchaseOrders)
		auth.GET("/purchase-orders/:id", handlers.GetPurchaseOrder)
		auth.GET("/purchase-orders/:id/export", handlers.ExportPurchaseOrder)

		auth.POST("/invoices", handlers.CreateInvoice)
		auth.GET("/invoices", handlers.GetInvoices)
		auth.GET("/invoices/next-number", handlers.GetNextInvoiceNumber)
		auth.GET("/invoices/:id", handlers.GetInvoice)
		auth.PUT("/invoices/:id/status", handlers.UpdateInvoiceStatus)
	}

	admin := auth.Group("")
	admin.Use(middlewares.RequireRole(string(models.UserRoleAdmin)))
	{
		admin.POST("/skus", handlers.CreateSku)
		admin.PUT("/skus/:id", handlers.UpdateSku)
		admin.DELETE("/skus/:id", handlers.DeleteSku)

		admin.POST("/discounts", handlers.CreateDiscount)
		admin.PUT("/discounts/:id", handlers.UpdateDiscount)
		admin.DELETE("/discounts/:id", handlers.DeleteDiscount)

		admin.POST("/free-issues", handlers.CreateFreeIssue)
		admin.PUT("/free-issues/:id", handlers.UpdateFreeIssue)
		admin.DELETE("/free-issues/:id", handlers.DeleteFreeIssue)

		admin.POST("/zones", handlers.CreateZone)
		admin.PUT("/zones/:id", handlers.UpdateZone)
		admin.DELETE("/zones/:id", handlers.DeleteZone)

		admin.POST("/regions", handlers.CreateRegion)
		admin.PUT("/regions/:id", handlers.UpdateRegion)
		admin.DELETE("/regions/:id", handlers.DeleteRegion)

		admin.POST("/territories", handlers.CreateTerritory)
		admin.PUT("/territories/:id", handlers.UpdateTerritory)
		admin.DELETE("/territories/:id", handlers.DeleteTerritory)

		admin.POST("/users", handlers.CreateUser)
		admin.GET("/users", handlers.GetUsers)
		admin.GET("/users/:id", handlers.GetUser)
		admin.PUT("/users/:id", handlers.UpdateUser)
		admin.DELETE("/users/:id", handlers.DeleteUser)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running it as a
	// separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	log.Println("Server started successfully on port " + port)

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger logs only requests that accumulated errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// RateLimitMiddleware enforces a fixed window per client IP, counted in redis.
// INCR is atomic, so concurrent first requests in a window all count; whichever
// call created the key sets its expiry.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	key := "rate:" + c.ClientIP()

	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	if count == 1 {
		if err := rl.client.Expire(c.Request.Context(), key, rl.window).Err(); err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
	}
	if count > rl.limit {
		c.AbortWithStatus(http.StatusTooManyRequests)
		return
	}

	c.Next()
}
