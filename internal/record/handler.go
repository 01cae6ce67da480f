package record

import (
	"net/http"
	"strconv"

	"github.com/bob-rietveld/unheard-v3/common"
	"github.com/bob-rietveld/unheard-v3/internal/config"
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

// Get handles GET requests for a single record.
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id < 1 {
		c.Error(common.Errf(http.StatusBadRequest, "invalid ID"))
		return
	}

	resp, svcErr := h.service.Get(c.Request.Context(), middleware.CurrentUser(c).ID, uint(id))
	if svcErr != nil {
		c.Error(svcErr)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET requests for records, filtered by type or CRM list id.
func (h *Handler) List(c *gin.Context) {
	userID := middleware.CurrentUser(c).ID

	if listID := c.Query("list_id"); listID != "" {
		resp, err := h.service.ListByList(c.Request.Context(), userID, listID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	recordType, ok := recordTypeParam(c)
	if !ok {
		return
	}
	resp, err := h.service.ListByType(c.Request.Context(), userID, recordType)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Search handles GET requests for a case-insensitive name/email search.
func (h *Handler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.Error(common.Errf(http.StatusBadRequest, "missing query parameter q"))
		return
	}

	recordType := config.RecordType(c.Query("type"))
	if recordType != "" && recordType != config.RecordTypeCompany && recordType != config.RecordTypePerson {
		c.Error(common.Errf(http.StatusBadRequest, "invalid record type"))
		return
	}

	resp, err := h.service.Search(c.Request.Context(), middleware.CurrentUser(c).ID, term, recordType)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func recordTypeParam(c *gin.Context) (config.RecordType, bool) {
	recordType := config.RecordType(c.DefaultQuery("type", string(config.RecordTypeCompany)))
	if recordType != config.RecordTypeCompany && recordType != config.RecordTypePerson {
		c.Error(common.Errf(http.StatusBadRequest, "invalid record type"))
		return "", false
	}
	return recordType, true
}
