package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/manumurali010/gst-sub002/internal/config"
	"github.com/manumurali010/gst-sub002/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	store   *store.Store
	cfg     *config.AppConfig
	pending *pendingStore
}

// NewHandler 创建 V1 API 处理器
func NewHandler(store *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:   store,
		cfg:     cfg,
		pending: newPendingStore(),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 上传并扫描工作簿
	router.POST("/scan", h.Scan)

	// 歧义协商
	router.GET("/ambiguities", h.ListAmbiguities)
	router.POST("/ambiguities/:id", h.AnswerAmbiguity)
}
