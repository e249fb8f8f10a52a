package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AnswerRequest 歧义回答
type AnswerRequest struct {
	SelectedNormalizedHeaderText string `json:"selectedNormalizedHeaderText"`
	Decline                      bool   `json:"decline"` // 明确拒绝：该键按未决处理，不写缓存
}

// ListAmbiguities 列出待人工决策的歧义请求
// GET /api/ambiguities
//
// 候选项原样返回且不带预选默认值，多个候选分类同样强时必须显式选择
func (h *Handler) ListAmbiguities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ambiguities": h.pending.list()})
}

// AnswerAmbiguity 回填一个歧义选择
// POST /api/ambiguities/:id
//
// 选择必须是当前候选之一；写入持久层后，下一次扫描同一文件
// 会经缓存直接命中，不再重问
func (h *Handler) AnswerAmbiguity(c *gin.Context) {
	id := c.Param("id")

	item, ok := h.pending.get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "ambiguity request not found"})
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Decline {
		h.pending.remove(id)
		c.JSON(http.StatusOK, gin.H{"status": "declined"})
		return
	}

	valid := false
	for _, cand := range item.request.Candidates {
		if cand.NormalizedText == req.SelectedNormalizedHeaderText {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "selection is not one of the candidates"})
		return
	}

	if err := h.store.SaveResolution(item.fileHash, item.request.CacheKey, req.SelectedNormalizedHeaderText); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist resolution"})
		return
	}

	h.pending.remove(id)
	c.JSON(http.StatusOK, gin.H{"status": "resolved", "cacheKey": item.request.CacheKey})
}
