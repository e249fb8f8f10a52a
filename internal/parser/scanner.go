package parser

import (
	"strings"

	"github.com/manumurali010/gst-sub002/internal/model"
)

// Scanner 表头块扫描器
// 在无标注的网格里定位表头起始行，容忍跨两个物理行的表头
// （父行是汇总标签，子行是税目/单位等细分标签）
type Scanner struct {
	registry *Registry
	cfg      ScanConfig
}

// NewScanner 创建扫描器
func NewScanner(registry *Registry, cfg ScanConfig) *Scanner {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Scanner{registry: registry, cfg: cfg}
}

// mergedLabel 两行合并后的单列标签
type mergedLabel struct {
	col      int
	text     string // 原始合并文本
	normText string // 规范化文本
}

// Scan 扫描网格定位表头
// 主窗口找不到且开启二次探测时，用扩大窗口重扫一次。
// 任何窗口都没有命中则返回未找到哨兵，绝不返回部分结果。
// 空网格等结构性畸形输入同样按未找到处理，保证扫描对全部输入可用
func (s *Scanner) Scan(grid *model.Grid) model.ScanResult {
	if grid == nil || grid.RowCount() == 0 {
		return model.NotFoundScan()
	}

	if res, ok := s.scanWindow(grid, s.cfg.PrimaryWindow); ok {
		return res
	}
	if s.cfg.SecondaryProbe {
		if res, ok := s.scanWindow(grid, s.cfg.SecondaryWindow); ok {
			return res
		}
	}
	return model.NotFoundScan()
}

func (s *Scanner) scanWindow(grid *model.Grid, window int) (model.ScanResult, bool) {
	limit := window
	if grid.RowCount() < limit {
		limit = grid.RowCount()
	}

	for i := 0; i < limit; i++ {
		if !s.isHeaderCandidate(grid, i) {
			continue
		}

		merged := s.mergeHeaderRows(grid, i)
		matched := s.countDistinctKeys(merged)
		if matched < s.cfg.MinKeyMatches {
			continue
		}
		// 命中键数不足 StrongMatchCount 时，要求表头下两行出现数值单元格，
		// 排除恰好带相同词汇但后面没有数据的说明行
		if matched < s.cfg.StrongMatchCount && !s.probeDataRow(grid, i+2) {
			continue
		}

		return s.buildResult(merged, i), true
	}
	return model.NotFoundScan(), false
}

// isHeaderCandidate 行是否可能是表头
// 要求至少 MinTextTokens 个互异的非空文本单元格（稀疏表头放宽为 1），
// 且不被数值主导：非空单元格中可按数字解析的比例严格大于
// NumericDominance 时视为数据行；恰好等于阈值仍算表头候选。
// 边界规则两侧必须一致，否则临界文件会在两次运行间翻转分类
func (s *Scanner) isHeaderCandidate(grid *model.Grid, row int) bool {
	nonEmpty := 0
	numeric := 0
	distinctText := make(map[string]struct{})

	for col := 0; col < grid.ColCount(row); col++ {
		cell := grid.Cell(row, col)
		switch cell.Kind {
		case model.CellEmpty:
			continue
		case model.CellNumber:
			nonEmpty++
			numeric++
		case model.CellText:
			if strings.TrimSpace(cell.Text) == "" {
				continue
			}
			nonEmpty++
			if IsNumericText(cell.Text) {
				numeric++
				continue
			}
			if norm := NormalizeHeader(cell.Text); norm != "" {
				distinctText[norm] = struct{}{}
			}
		}
	}

	minTokens := s.cfg.MinTextTokens
	if s.cfg.HeaderSparse && minTokens > 1 {
		minTokens = 1
	}
	if len(distinctText) < minTokens {
		return false
	}
	if nonEmpty == 0 {
		return false
	}
	return float64(numeric)/float64(nonEmpty) <= s.cfg.NumericDominance
}

// mergeHeaderRows 合并表头行与其子行
// 父标签跨空白/占位单元格向右延续，同一个父标签可以覆盖多个子列；
// 父或子任一半为空时只取另一半
func (s *Scanner) mergeHeaderRows(grid *model.Grid, row int) []mergedLabel {
	cols := grid.ColCount(row)
	if c := grid.ColCount(row + 1); c > cols {
		cols = c
	}

	labels := make([]mergedLabel, 0, cols)
	carry := ""

	for col := 0; col < cols; col++ {
		parentCell := grid.Cell(row, col)
		if parentCell.Kind == model.CellNumber {
			// 数值单元格不是标签，切断父标签的延续
			carry = ""
		} else if parent := cellLabelText(parentCell); parent != "" {
			carry = parent
		}
		child := cellLabelText(grid.Cell(row+1, col))

		var text string
		switch {
		case carry != "" && child != "":
			text = carry + " " + child
		case carry != "":
			text = carry
		default:
			text = child
		}
		if text == "" {
			continue
		}

		norm := NormalizeHeader(text)
		if norm == "" {
			continue
		}
		labels = append(labels, mergedLabel{col: col, text: text, normText: norm})
	}
	return labels
}

// cellLabelText 取单元格的标签文本，占位符（纯标点等）按空白处理
func cellLabelText(cell model.Cell) string {
	if cell.Kind != model.CellText {
		return ""
	}
	text := strings.TrimSpace(cell.Text)
	if text == "" || NormalizeHeader(text) == "" {
		return ""
	}
	return text
}

func (s *Scanner) countDistinctKeys(labels []mergedLabel) int {
	keys := make(map[model.CanonicalKey]struct{})
	for _, l := range labels {
		for _, k := range s.registry.MatchKeys(l.normText) {
			keys[k] = struct{}{}
		}
	}
	return len(keys)
}

// probeDataRow 表头下两行是否至少有一个数值单元格
func (s *Scanner) probeDataRow(grid *model.Grid, row int) bool {
	if row >= grid.RowCount() {
		return false
	}
	for col := 0; col < grid.ColCount(row); col++ {
		cell := grid.Cell(row, col)
		if cell.Kind == model.CellNumber {
			return true
		}
		if cell.Kind == model.CellText && IsNumericText(cell.Text) {
			return true
		}
	}
	return false
}

// buildResult 由胜出的合并行构建扫描结果
// 数据起始行 = 表头行 + 2，跳过父子两个物理行
func (s *Scanner) buildResult(labels []mergedLabel, headerRow int) model.ScanResult {
	headerMap := make(model.HeaderMap)
	for _, l := range labels {
		headerMap[l.normText] = append(headerMap[l.normText], model.HeaderMatch{
			NormalizedText: l.normText,
			ColumnIndex:    l.col,
			OriginalText:   l.text,
		})
	}
	return model.ScanResult{
		HeaderMap:    headerMap,
		HeaderRow:    headerRow,
		DataStartRow: headerRow + 2,
	}
}
