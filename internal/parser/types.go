package parser

// ScanConfig 表头扫描参数
// 阈值是按已知正常文件调出来的小整数，不是硬不变量，全部可配置
type ScanConfig struct {
	PrimaryWindow    int     `json:"primaryWindow"`    // 主窗口扫描行数
	SecondaryWindow  int     `json:"secondaryWindow"`  // 二次探测窗口行数
	NumericDominance float64 `json:"numericDominance"` // 数值占比阈值，严格大于视为数据行
	MinKeyMatches    int     `json:"minKeyMatches"`    // 最少命中规范键数（需数据行验证）
	StrongMatchCount int     `json:"strongMatchCount"` // 免数据行验证的命中键数
	MinTextTokens    int     `json:"minTextTokens"`    // 候选行最少非空文本单元格数
	HeaderSparse     bool    `json:"headerSparse"`     // 稀疏表头（单列/老版式），放宽到 1 个文本单元格
	SecondaryProbe   bool    `json:"secondaryProbe"`   // 主窗口失败后是否扩大窗口重扫（按分析点显式开启）
}

// DefaultScanConfig 默认扫描参数
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		PrimaryWindow:    15,
		SecondaryWindow:  30,
		NumericDominance: 0.60,
		MinKeyMatches:    2,
		StrongMatchCount: 3,
		MinTextTokens:    2,
	}
}
