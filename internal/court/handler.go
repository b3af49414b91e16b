package court

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeysi05/pickle-jar-courts/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateCourt is admin-only.
func (h *Handler) CreateCourt(c *gin.Context) {
	var req CreateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	court, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrCourtInvalid) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid court data"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create court"})
		return
	}

	c.JSON(http.StatusCreated, court)
}

func (h *Handler) ListCourts(c *gin.Context) {
	courts, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch courts"})
		return
	}

	c.JSON(http.StatusOK, courts)
}
