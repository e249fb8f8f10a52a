package model

// CellKind 单元格值类型
type CellKind int

const (
	CellEmpty CellKind = iota // 空/缺失
	CellText                  // 文本
	CellNumber                // 数值
)

// Cell 单元格。缺失是独立状态（CellEmpty），不会被静默当作零
type Cell struct {
	Kind   CellKind `json:"kind"`
	Text   string   `json:"text,omitempty"`
	Number float64  `json:"number,omitempty"`
}

// EmptyCell 空单元格
func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// TextCell 文本单元格
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell 数值单元格
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// IsEmpty 是否为空单元格
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// Grid 二维单元格网格
// 各行长度允许不一致，越界读取一律按空单元格处理。
// 扫描期间只读，归调用方所有
type Grid struct {
	Rows [][]Cell
}

// NewGrid 创建网格
func NewGrid(rows [][]Cell) *Grid {
	return &Grid{Rows: rows}
}

// RowCount 行数
func (g *Grid) RowCount() int {
	if g == nil {
		return 0
	}
	return len(g.Rows)
}

// ColCount 指定行的列数
func (g *Grid) ColCount(row int) int {
	if g == nil || row < 0 || row >= len(g.Rows) {
		return 0
	}
	return len(g.Rows[row])
}

// MaxColCount 所有行的最大列数
func (g *Grid) MaxColCount() int {
	max := 0
	for i := range g.Rows {
		if len(g.Rows[i]) > max {
			max = len(g.Rows[i])
		}
	}
	return max
}

// Cell 读取单元格，越界返回空单元格
func (g *Grid) Cell(row, col int) Cell {
	if g == nil || row < 0 || row >= len(g.Rows) {
		return EmptyCell()
	}
	r := g.Rows[row]
	if col < 0 || col >= len(r) {
		return EmptyCell()
	}
	return r[col]
}
