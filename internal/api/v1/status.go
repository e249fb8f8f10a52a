package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	PendingAmbiguities int `json:"pendingAmbiguities"` // 待决歧义数
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		PendingAmbiguities: len(h.pending.list()),
	})
}
