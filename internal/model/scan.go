package model

// HeaderMatch 单个表头命中
// 同一规范化表头文本出现在多列时会有多个 HeaderMatch
type HeaderMatch struct {
	NormalizedText string `json:"normalizedText"` // 规范化后的表头文本
	ColumnIndex    int    `json:"columnIndex"`    // 所在列索引
	OriginalText   string `json:"originalText"`   // 原始表头文本
}

// HeaderMap 规范化表头文本 → 命中列表（按列索引升序）
type HeaderMap map[string][]HeaderMatch

// NotFoundRow 表头未找到时的哨兵行号
const NotFoundRow = -1

// ScanResult 表头扫描结果
// 未找到时 HeaderMap 为空且 DataStartRow = NotFoundRow，不会返回部分结果
type ScanResult struct {
	HeaderMap    HeaderMap `json:"headerMap"`
	HeaderRow    int       `json:"headerRow"`    // 表头起始行（物理行，可能跨两行）
	DataStartRow int       `json:"dataStartRow"` // 数据起始行
}

// NotFoundScan 未找到哨兵
func NotFoundScan() ScanResult {
	return ScanResult{
		HeaderMap:    HeaderMap{},
		HeaderRow:    NotFoundRow,
		DataStartRow: NotFoundRow,
	}
}

// Found 是否找到表头
func (r ScanResult) Found() bool {
	return r.DataStartRow != NotFoundRow
}
