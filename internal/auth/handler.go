package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeysi05/pickle-jar-courts/internal/api"
)

type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type CoachLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	h.login(c, RoleAdmin, req.Password)
}

// CoachLogin unlocks coach pricing for the holder of the token.
func (h *Handler) CoachLogin(c *gin.Context) {
	var req CoachLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	h.login(c, RoleCoach, req.Code)
}

func (h *Handler) login(c *gin.Context, role, secret string) {
	tokens, err := h.service.Login(c.Request.Context(), role, secret)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}
