package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sheikh-saqib/accounts-ledger/internal/logger"
)

// NewRouter registers every route. All endpoints are also mounted under
// /api/v1.
func NewRouter(h *Handler, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/health", h.Health)
	for _, group := range []*gin.RouterGroup{router.Group("/"), router.Group("/api/v1")} {
		group.POST("/accounts", h.NewAccount)
		group.GET("/accounts/:id", h.Info)
		group.POST("/accounts/:id/acts", h.NewAct)
		group.GET("/accounts/:id/acts", h.Query)
		group.GET("/accounts/:id/statement", h.Statement)
	}
	return router
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
