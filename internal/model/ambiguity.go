package model

// CandidateCategory 候选项分类标签（仅供人工决策参考）
type CandidateCategory string

const (
	CategoryRecommended CandidateCategory = "recommended" // 推荐项
	CategoryOther       CandidateCategory = "other"       // 其他项
)

// CandidateOption 歧义候选项
type CandidateOption struct {
	Label          string            `json:"label"`          // 展示用标签
	NormalizedText string            `json:"normalizedText"` // 规范化表头文本
	OriginalText   string            `json:"originalText"`   // 原始表头文本
	Category       CandidateCategory `json:"category"`
}

// AmbiguityRequest 歧义协商请求
// 同一 (scopeId, canonicalKey) 在一次扫描内最多产生一个请求，
// 候选项按规范化文本去重，不会把同一选择展示两次
type AmbiguityRequest struct {
	ID         string            `json:"id"`       // 请求标识
	ScopeID    string            `json:"scopeId"`  // 发起方（分析点 + 子变体）
	Key        CanonicalKey      `json:"key"`      // 待解析的规范键
	CacheKey   string            `json:"cacheKey"` // scopeId + ":" + key
	Candidates []CandidateOption `json:"candidates"`
}

// Selection 外部决策方给出的选择
type Selection struct {
	CacheKey       string `json:"cacheKey"`
	NormalizedText string `json:"selectedNormalizedHeaderText"`
}
