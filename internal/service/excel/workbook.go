package excel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/manumurali010/gst-sub002/internal/model"
	"github.com/manumurali010/gst-sub002/internal/parser"
)

// ErrSheetNotFound 工作簿里没有指定 sheet
var ErrSheetNotFound = errors.New("sheet not found")

// OpenWorkbook 打开 xlsx 文件
func OpenWorkbook(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return f, nil
}

// SheetNames 工作簿内全部 sheet 名
func SheetNames(wb *excelize.File) []string {
	if wb == nil {
		return []string{}
	}
	return wb.GetSheetList()
}

// GridFromSheet 把一个 sheet 读成类型化网格
// 单元格文本能按数字解析的转为数值单元格，空串转为空单元格，
// 其余保留为文本。行长度保持原样（允许 ragged），引擎侧按空单元格补齐
func GridFromSheet(wb *excelize.File, sheetName string) (*model.Grid, error) {
	if wb == nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, ErrSheetNotFound)
	}
	if idx, err := wb.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, ErrSheetNotFound)
	}

	rows, err := wb.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	gridRows := make([][]model.Cell, len(rows))
	for i, row := range rows {
		cells := make([]model.Cell, len(row))
		for j, raw := range row {
			cells[j] = cellFromString(raw)
		}
		gridRows[i] = cells
	}
	return model.NewGrid(gridRows), nil
}

// cellFromString 单元格原始文本 → 类型化单元格
func cellFromString(raw string) model.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.EmptyCell()
	}
	if parser.IsNumericText(trimmed) {
		if v, ok := parser.ParseNumber(trimmed); ok {
			return model.NumberCell(v)
		}
	}
	return model.TextCell(raw)
}
