package model

// ResultKind 分析点结论类型
type ResultKind string

const (
	ResultPass  ResultKind = "pass"  // 无差异
	ResultFail  ResultKind = "fail"  // 有差异
	ResultInfo  ResultKind = "info"  // 数据来源缺失，无法下定性结论
	ResultError ResultKind = "error" // 必需列未解析，原子失败
)

// PointResult 单个分析点在一张网格集合上的结论
// AtomicFailure 绝不允许伪装成零值 pass
type PointResult struct {
	PointID        string             `json:"pointId"`
	ScopeID        string             `json:"scopeId"`
	Kind           ResultKind         `json:"kind"`
	Values         map[string]float64 `json:"values,omitempty"`         // 各关键量取值
	Shortfall      float64            `json:"shortfall,omitempty"`      // 差额（fail 时有效）
	Reason         string             `json:"reason,omitempty"`         // info 结论说明
	MissingKeys    []CanonicalKey     `json:"missingKeys,omitempty"`    // error 时整列缺失的规范键（缺数据）
	UnresolvedKeys []CanonicalKey     `json:"unresolvedKeys,omitempty"` // error 时歧义未决的规范键（缺决策）
	PendingKeys    []CanonicalKey     `json:"pendingKeys,omitempty"`    // 等待歧义协商的规范键
}

// ScanReport 一次完整扫描的汇总
type ScanReport struct {
	Results []PointResult      `json:"results"`
	Pending []AmbiguityRequest `json:"pending"` // 待人工决策的歧义请求
}
