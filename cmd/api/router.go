package main

import (
	"net/http"

	"github.com/bob-rietveld/unheard-v3/internal/enrichment"
	"github.com/bob-rietveld/unheard-v3/internal/integration"
	"github.com/bob-rietveld/unheard-v3/internal/record"
	"github.com/bob-rietveld/unheard-v3/internal/segment"
	"github.com/bob-rietveld/unheard-v3/internal/sync"
	"github.com/bob-rietveld/unheard-v3/internal/user"
	"github.com/bob-rietveld/unheard-v3/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type handlers struct {
	users        user.HandlerInterface
	integrations integration.HandlerInterface
	sync         sync.HandlerInterface
	records      record.HandlerInterface
	segments     segment.HandlerInterface
	enrichment   enrichment.HandlerInterface
}

func newRouter(h handlers, users middleware.TokenResolver) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.ErrorHandler())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Profile upsert needs only the bearer token; the user row may not
	// exist yet.
	r.POST("/users", h.users.Upsert)

	auth := r.Group("/", middleware.Auth(users))
	{
		auth.GET("/me", h.users.Me)

		auth.POST("/integrations/connect", h.integrations.Connect)
		auth.GET("/integrations", h.integrations.List)
		auth.GET("/integrations/:id", h.integrations.Get)
		auth.POST("/integrations/:id/disconnect", h.integrations.Disconnect)
		auth.POST("/integrations/:id/sync", h.sync.SyncAll)
		auth.POST("/integrations/:id/sync-list", h.sync.SyncList)
		auth.GET("/integrations/:id/lists", h.sync.AvailableLists)

		auth.GET("/records", h.records.List)
		auth.GET("/records/search", h.records.Search)
		auth.GET("/records/:id", h.records.Get)
		auth.GET("/records/:id/job", h.enrichment.GetJobForRecord)
		auth.POST("/records/:id/enrich", h.enrichment.EnrichRecord)

		auth.POST("/segments", h.segments.Create)
		auth.GET("/segments", h.segments.List)
		auth.POST("/segments/from-list", h.segments.CreateFromList)
		auth.GET("/segments/:id", h.segments.Get)
		auth.PATCH("/segments/:id", h.segments.Update)
		auth.DELETE("/segments/:id", h.segments.Delete)
		auth.GET("/segments/:id/members", h.segments.Members)
		auth.POST("/segments/:id/members", h.segments.AddMembers)
		auth.DELETE("/segments/:id/members", h.segments.RemoveMembers)
		auth.POST("/segments/:id/enrich", h.enrichment.EnrichSegment)

		auth.GET("/jobs", h.enrichment.ListJobs)
		auth.GET("/jobs/:id", h.enrichment.GetJob)
	}

	return r
}
