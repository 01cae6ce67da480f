package sync

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

// SyncAll handles POST requests to sync a whole integration workspace.
func (h *Handler) SyncAll(c *gin.Context) {
	integrationID, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := h.service.SyncAll(c.Request.Context(), middleware.CurrentUser(c).ID, integrationID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SyncList handles POST requests to sync one CRM list.
func (h *Handler) SyncList(c *gin.Context) {
	integrationID, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.SyncListDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.SyncList(c.Request.Context(), middleware.CurrentUser(c).ID, integrationID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AvailableLists handles GET requests for the provider's list catalog.
func (h *Handler) AvailableLists(c *gin.Context) {
	integrationID, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := h.service.AvailableLists(c.Request.Context(), middleware.CurrentUser(c).ID, integrationID)
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
