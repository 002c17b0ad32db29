package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/middleware"
)

type AuthUseCase interface {
	Login(ctx context.Context, email, password string) (*entity.Session, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, email string) (*entity.Profile, error)
}

type AuthHandler struct {
	UseCase AuthUseCase
}

func NewAuthHandler(u AuthUseCase) *AuthHandler {
	return &AuthHandler{UseCase: u}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	s, err := h.UseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": s.Token, "email": s.Email})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.UseCase.Logout(c.Request.Context(), c.GetString(middleware.TokenKey)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	p, err := h.UseCase.Me(c.Request.Context(), c.GetString(middleware.EmailKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
