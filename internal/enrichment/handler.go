package enrichment

import (
	"net/http"
	"strconv"

	"github.com/bob-rietveld/unheard-v3/common"
	"github.com/bob-rietveld/unheard-v3/middleware"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service ServiceInterface
}

var _ HandlerInterface = (*Handler)(nil)

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

// EnrichRecord handles POST requests to enrich a single record.
func (h *Handler) EnrichRecord(c *gin.Context) {
	recordID, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.EnrichRecord(c.Request.Context(), middleware.CurrentUser(c).ID, recordID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// EnrichSegment handles POST requests to enrich every member of a segment.
func (h *Handler) EnrichSegment(c *gin.Context) {
	segmentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.EnrichSegment(c.Request.Context(), middleware.CurrentUser(c).ID, segmentID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// GetJob handles GET requests for a single enrichment job.
func (h *Handler) GetJob(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetJob(c.Request.Context(), middleware.CurrentUser(c).ID, jobID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetJobForRecord handles GET requests for a record's latest enrichment job.
func (h *Handler) GetJobForRecord(c *gin.Context) {
	recordID, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetJobForRecord(c.Request.Context(), middleware.CurrentUser(c).ID, recordID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListJobs handles GET requests for the caller's recent enrichment jobs.
func (h *Handler) ListJobs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.Error(common.Errf(http.StatusBadRequest, "invalid limit"))
			return
		}
		limit = parsed
	}

	resp, err := h.service.ListJobs(c.Request.Context(), middleware.CurrentUser(c).ID, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id < 1 {
		c.Error(common.Errf(http.StatusBadRequest, "invalid ID"))
		return 0, false
	}
	return uint(id), true
}
