package integration

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

// Connect handles POST requests to connect a CRM workspace.
func (h *Handler) Connect(c *gin.Context) {
	var req dto.ConnectIntegrationDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.Connect(c.Request.Context(), middleware.CurrentUser(c).ID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET requests for the caller's integrations.
func (h *Handler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get handles GET requests for a single integration.
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

// Disconnect handles POST requests to disconnect an integration.
func (h *Handler) Disconnect(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Disconnect(c.Request.Context(), middleware.CurrentUser(c).ID, id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id < 1 {
		c.Error(common.Errf(http.StatusBadRequest, "invalid ID"))
		return 0, false
	}
	return uint(id), true
}
