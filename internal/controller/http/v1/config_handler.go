package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/middleware"
)

type ConfigUseCase interface {
	Thresholds(ctx context.Context) (*entity.Thresholds, error)
	Update(ctx context.Context, email string, upd entity.ThresholdsUpdate) (*entity.ConfigUpdatedMessage, error)
	ListHistory(ctx context.Context, limit int) ([]entity.ThresholdChange, error)
}

const maxHistoryLimit = 100

type ConfigHandler struct {
	UseCase ConfigUseCase
}

func NewConfigHandler(u ConfigUseCase) *ConfigHandler {
	return &ConfigHandler{UseCase: u}
}

func (h *ConfigHandler) GetConfig(c *gin.Context) {
	t, err := h.UseCase.Thresholds(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	var upd entity.ThresholdsUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	msg, err := h.UseCase.Update(c.Request.Context(), c.GetString(middleware.EmailKey), upd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"change_id": msg.ChangeID, "data": msg.Update})
}

func (h *ConfigHandler) GetHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > maxHistoryLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	changes, err := h.UseCase.ListHistory(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": changes})
}
