package segment

import (
	"net/http"
	"strconv"

	"github.com/bob-rietveld/unheard-v3/common"
	"github.com/bob-rietveld/unheard-v3/internal/dto"
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

// Create handles POST requests to create a segment.
func (h *Handler) Create(c *gin.Context) {
	var req dto.SegmentCreateDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), middleware.CurrentUser(c).ID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// List handles GET requests for the caller's segments.
func (h *Handler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get handles GET requests for a single segment.
func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Update handles PATCH requests to rename or re-describe a segment.
func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.SegmentUpdateDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), middleware.CurrentUser(c).ID, id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE requests for a segment and its memberships.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CurrentUser(c).ID, id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddMembers handles POST requests to add records to a segment.
func (h *Handler) AddMembers(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.SegmentMembersDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.AddMembers(c.Request.Context(), middleware.CurrentUser(c).ID, id, req.CrmRecordIDs)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RemoveMembers handles DELETE requests to remove records from a segment.
func (h *Handler) RemoveMembers(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.SegmentMembersDTO
	if !middleware.Bind(c, &req) {
		return
	}

	if err := h.service.RemoveMembers(c.Request.Context(), middleware.CurrentUser(c).ID, id, req.CrmRecordIDs); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateFromList handles POST requests to build a segment from a synced
// CRM list.
func (h *Handler) CreateFromList(c *gin.Context) {
	var req dto.SegmentFromListDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.CreateFromList(c.Request.Context(), middleware.CurrentUser(c).ID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Members handles GET requests for a segment's member records.
func (h *Handler) Members(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.Error(common.Errf(http.StatusBadRequest, "invalid limit"))
			return
		}
		limit = parsed
	}

	resp, err := h.service.Members(c.Request.Context(), middleware.CurrentUser(c).ID, id, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id < 1 {
		c.Error(common.Errf(http.StatusBadRequest, "invalid ID"))
		return 0, false
	}
	return uint(id), true
}
