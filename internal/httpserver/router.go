package httpserver

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"minuteshub/internal/handler"
	"minuteshub/pkg/metrics"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	meetingHandler *handler.MeetingHandler,
	pipelineHandler *handler.PipelineHandler,
	templateHandler *handler.TemplateHandler,
	preferenceHandler *handler.PreferenceHandler,
	emailHandler *handler.EmailHandler,
	db *pgxpool.Pool,
) *Router {
	r := gin.Default()
	r.Use(metricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/meetings", meetingHandler.List)
		api.POST("/meetings", meetingHandler.Create)
		api.GET("/meetings/:id", meetingHandler.Get)
		api.PATCH("/meetings/:id", meetingHandler.Patch)
		api.DELETE("/meetings/:id", meetingHandler.Delete)

		api.POST("/meetings/:id/audio", pipelineHandler.AttachAudio)
		api.POST("/meetings/:id/summary/regenerate", pipelineHandler.RegenerateSummary)
		api.POST("/meetings/:id/actions/regenerate", pipelineHandler.RegenerateActionItems)
		api.POST("/meetings/:id/actions", meetingHandler.AddActionItem)
		api.POST("/meetings/:id/actions/:itemID/toggle", meetingHandler.ToggleActionItem)

		api.POST("/pipeline/text", pipelineHandler.RunText)
		api.POST("/pipeline/audio", pipelineHandler.RunAudio)

		api.GET("/templates", templateHandler.List)
		api.POST("/templates", templateHandler.Create)
		api.GET("/templates/:id", templateHandler.Get)
		api.PUT("/templates/:id", templateHandler.Update)
		api.DELETE("/templates/:id", templateHandler.Delete)
		api.POST("/templates/:id/render", templateHandler.Render)

		api.GET("/preferences", preferenceHandler.All)
		api.PUT("/preferences/:key", preferenceHandler.Set)
		api.DELETE("/preferences/:key", preferenceHandler.Delete)

		api.POST("/email/send", emailHandler.Send)
		api.POST("/email/test", emailHandler.Test)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
