package analysis

import (
	"strings"

	"github.com/manumurali010/gst-sub002/internal/model"
	"github.com/manumurali010/gst-sub002/internal/parser"
	"github.com/manumurali010/gst-sub002/internal/service/resolve"
)

// OutwardNettingPoint 销项净额点（冲抵策略）
// 销项应税额减去贷记票据冲抵额，净额保底为零。
// 冲抵行（贷记票据）不存在是常态，按冲抵量为零处理，不是错误。
// 应税额列要求唯一：选错列会算出貌似合理的错数，
// 歧义时宁可不解析也不自动挑
type OutwardNettingPoint struct{}

func (p OutwardNettingPoint) ID() string      { return "outward_netting" }
func (p OutwardNettingPoint) ScopeID() string { return "outward_netting" }

// Run 计算净额
func (p OutwardNettingPoint) Run(env *Env, input Input) model.PointResult {
	result := model.PointResult{PointID: p.ID(), ScopeID: p.ScopeID()}

	scan := env.Scan(input, SourceGSTR1, env.ScanCfg)
	if !scan.Found() {
		result.Kind = model.ResultError
		result.MissingKeys = []model.CanonicalKey{model.KeyTaxableValue}
		result.Reason = "header block not found in source grid"
		return result
	}

	primaryOut := env.Resolver.Resolve(scan.HeaderMap, model.KeyTaxableValue, p.ScopeID(),
		resolve.Options{RequireUniqueness: true})
	if primaryOut.Kind != resolve.OutcomeResolved {
		result.Kind = model.ResultError
		if primaryOut.Kind == resolve.OutcomeUnresolved {
			result.UnresolvedKeys = []model.CanonicalKey{model.KeyTaxableValue}
		} else {
			result.MissingKeys = []model.CanonicalKey{model.KeyTaxableValue}
		}
		return result
	}

	grid := input.Grid(SourceGSTR1)
	primary := sumColumn(grid, primaryOut.Column, scan.DataStartRow)

	creditTotal, pendingKeys := p.creditNoteTotal(env, scan, grid)
	if len(pendingKeys) > 0 {
		result.Kind = model.ResultInfo
		result.Reason = "awaiting column selection"
		result.PendingKeys = pendingKeys
		return result
	}

	net := primary - creditTotal
	if net < 0 {
		net = 0
	}

	result.Kind = model.ResultPass
	result.Values = map[string]float64{
		"outward_taxable": primary,
		"credit_notes":    creditTotal,
		"net_outward":     net,
	}
	return result
}

// creditNoteTotal 汇总贷记票据冲抵额
// note_value 列走协商；note_type 是低风险元数据列，歧义时直接取首列。
// 任一列不存在 → 冲抵额按零
func (p OutwardNettingPoint) creditNoteTotal(env *Env, scan model.ScanResult, grid *model.Grid) (float64, []model.CanonicalKey) {
	valueOut := env.Resolver.Resolve(scan.HeaderMap, model.KeyNoteValue, p.ScopeID(),
		resolve.Options{AllowNegotiation: true})
	switch valueOut.Kind {
	case resolve.OutcomePending:
		env.notePending(valueOut.Request)
		return 0, []model.CanonicalKey{model.KeyNoteValue}
	case resolve.OutcomeResolved:
	default:
		// 没有票据列：无冲抵
		return 0, nil
	}

	typeOut := env.Resolver.Resolve(scan.HeaderMap, model.KeyNoteType, p.ScopeID(),
		resolve.Options{})
	if typeOut.Kind != resolve.OutcomeResolved {
		// 分不出贷记/借记时不冲抵，宁可少算冲抵也不错冲
		return 0, nil
	}

	total := 0.0
	for row := scan.DataStartRow; row < grid.RowCount(); row++ {
		if !isCreditNote(grid.Cell(row, typeOut.Column)) {
			continue
		}
		cell := grid.Cell(row, valueOut.Column)
		switch cell.Kind {
		case model.CellNumber:
			total += cell.Number
		case model.CellText:
			if v, ok := parser.ParseNumber(cell.Text); ok {
				total += v
			}
		}
	}
	return total, nil
}

// isCreditNote 票据类型单元格是否表示贷记票据（C / CR / Credit Note）
func isCreditNote(cell model.Cell) bool {
	if cell.Kind != model.CellText {
		return false
	}
	t := strings.ToLower(strings.TrimSpace(cell.Text))
	return t == "c" || t == "cr" || strings.HasPrefix(t, "credit")
}
