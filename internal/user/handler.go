package user

import (
	"net/http"

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

// Upsert handles POST requests to register or refresh the caller's profile.
// It runs outside the user-resolving auth middleware because the user row
// may not exist yet; only the bearer token is required.
func (h *Handler) Upsert(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.Error(common.Unauthorized("missing bearer token"))
		return
	}

	var req dto.UserUpsertDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.Upsert(c.Request.Context(), token, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET requests for the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	resp := h.service.Current(c.Request.Context(), middleware.CurrentUser(c))
	c.JSON(http.StatusOK, resp)
}
