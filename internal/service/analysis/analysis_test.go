package analysis

import (
	"testing"

	"github.com/manumurali010/gst-sub002/internal/model"
	"github.com/manumurali010/gst-sub002/internal/parser"
	"github.com/manumurali010/gst-sub002/internal/service/resolve"
)

// gridOf 测试辅助：字符串/数值混合行构建网格
// 表头行与数据行之间固定留一个空行（对应两行物理表头的占位）
func textRow(cells ...string) []model.Cell {
	row := make([]model.Cell, len(cells))
	for i, c := range cells {
		if c == "" {
			row[i] = model.EmptyCell()
		} else {
			row[i] = model.TextCell(c)
		}
	}
	return row
}

func newTestRunner() *Runner {
	registry := parser.DefaultRegistry()
	resolver := resolve.NewResolver(registry, parser.NewClassifier(), resolve.NewCache(), nil)
	return NewRunner(registry, resolver, nil)
}

// detailGrid GSTR-1 明细网格
func detailGrid(rows ...[]model.Cell) *model.Grid {
	all := [][]model.Cell{
		textRow("GSTIN", "Taxable Value", "IGST", "CGST", "SGST"),
		{},
	}
	all = append(all, rows...)
	return model.NewGrid(all)
}

// summaryGrid GSTR-3B 汇总网格
func summaryGrid(rows ...[]model.Cell) *model.Grid {
	all := [][]model.Cell{
		textRow("Return Period", "Taxable Value", "IGST", "CGST", "SGST"),
		{},
	}
	all = append(all, rows...)
	return model.NewGrid(all)
}

func resultByID(t *testing.T, report model.ScanReport, id string) model.PointResult {
	t.Helper()
	for _, r := range report.Results {
		if r.PointID == id {
			return r
		}
	}
	t.Fatalf("no result for point %s", id)
	return model.PointResult{}
}

func TestLiabilityMismatchPassAndFail(t *testing.T) {
	t.Parallel()

	input := Input{Grids: map[string]*model.Grid{
		SourceGSTR1: detailGrid(
			[]model.Cell{model.TextCell("27A"), model.NumberCell(1000), model.NumberCell(180), model.NumberCell(0), model.NumberCell(0)},
			[]model.Cell{model.TextCell("27B"), model.NumberCell(500), model.NumberCell(90), model.NumberCell(0), model.NumberCell(0)},
		),
		SourceGSTR3B: summaryGrid(
			[]model.Cell{model.TextCell("072025"), model.NumberCell(1500), model.NumberCell(270), model.NumberCell(0), model.NumberCell(0)},
		),
	}}

	report := newTestRunner().Run(input)
	res := resultByID(t, report, "liability_mismatch")
	if res.Kind != model.ResultPass {
		t.Fatalf("kind=%s, want pass (res=%+v)", res.Kind, res)
	}

	// 申报少于明细：fail 且差额等于少报额
	input.Grids[SourceGSTR3B] = summaryGrid(
		[]model.Cell{model.TextCell("072025"), model.NumberCell(1200), model.NumberCell(200), model.NumberCell(0), model.NumberCell(0)},
	)
	report = newTestRunner().Run(input)
	res = resultByID(t, report, "liability_mismatch")
	if res.Kind != model.ResultFail {
		t.Fatalf("kind=%s, want fail", res.Kind)
	}
	want := (1500.0 - 1200.0) + (270.0 - 200.0)
	if res.Shortfall != want {
		t.Fatalf("shortfall=%v, want %v", res.Shortfall, want)
	}
}

func TestAtomicFailureNamesMissingKeys(t *testing.T) {
	t.Parallel()

	// 明细缺 SGST 列：整体结构性失败，点名 sgst，绝不能是 pass
	input := Input{Grids: map[string]*model.Grid{
		SourceGSTR1: model.NewGrid([][]model.Cell{
			textRow("GSTIN", "Taxable Value", "IGST", "CGST"),
			{},
			{model.TextCell("27A"), model.NumberCell(1000), model.NumberCell(180), model.NumberCell(0)},
		}),
		SourceGSTR3B: summaryGrid(
			[]model.Cell{model.TextCell("072025"), model.NumberCell(1000), model.NumberCell(180), model.NumberCell(0), model.NumberCell(0)},
		),
	}}

	report := newTestRunner().Run(input)
	res := resultByID(t, report, "liability_mismatch")
	if res.Kind != model.ResultError {
		t.Fatalf("kind=%s, want error", res.Kind)
	}
	found := false
	for _, k := range res.MissingKeys {
		if k == model.KeySGST {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing keys %v must name sgst", res.MissingKeys)
	}
	if len(res.Values) != 0 {
		t.Fatalf("atomic failure must not carry zero-substituted values")
	}
}

func TestAtomicFailureWhenSourceGridAbsent(t *testing.T) {
	t.Parallel()

	input := Input{Grids: map[string]*model.Grid{
		SourceGSTR1: detailGrid(
			[]model.Cell{model.TextCell("27A"), model.NumberCell(1000), model.NumberCell(180), model.NumberCell(0), model.NumberCell(0)},
		),
	}}

	report := newTestRunner().Run(input)
	res := resultByID(t, report, "liability_mismatch")
	if res.Kind != model.ResultError {
		t.Fatalf("kind=%s, want error when the summary grid is absent", res.Kind)
	}
}

func TestNettingWithoutCreditNotesUsesZeroOffset(t *testing.T) {
	t.Parallel()

	// 网格里没有票据列：冲抵量按零，净额 = 主量
	input := Input{Grids: map[string]*model.Grid{
		SourceGSTR1: detailGrid(
			[]model.Cell{model.TextCell("27A"), model.NumberCell(1000), model.NumberCell(180), model.NumberCell(0), model.NumberCell(0)},
			[]model.Cell{model.TextCell("27B"), model.NumberCell(500), model.NumberCell(90), model.NumberCell(0), model.NumberCell(0)},
		),
	}}

	report := newTestRunner().Run(input)
	res := resultByID(t, report, "outward_netting")
	if res.Kind != model.ResultPass {
		t.Fatalf("kind=%s, want pass", res.Kind)
	}
	if res.Values["net_outward"] != 1500 {
		t.Fatalf("net=%v, want 1500", res.Values["net_outward"])
	}
	if res.Values["credit_notes"] != 0 {
		t.Fatalf("credit_notes=%v, want 0", res.Values["credit_notes"])
	}
}

func TestNettingSubtractsCreditNotesAndFloorsAtZero(t *testing.T) {
	t.Parallel()

	grid := model.NewGrid([][]model.Cell{
		textRow("GSTIN", "Taxable Value", "IGST", "Note Type", "Note Value"),
		{},
		{model.TextCell("27A"), model.NumberCell(1000), model.NumberCell(180), model.TextCell("C"), model.NumberCell(800)},
		{model.TextCell("27B"), model.NumberCell(200), model.NumberCell(36), model.TextCell("D"), model.NumberCell(100)},
		{model.TextCell("27C"), model.NumberCell(0), model.NumberCell(0), model.TextCell("Credit Note"), model.NumberCell(900)},
	})
	input := Input{Grids: map[string]*model.Grid{SourceGSTR1: grid}}

	report := newTestRunner().Run(input)
	res := resultByID(t, report, "outward_netting")
	if res.Kind != model.ResultPass {
		t.Fatalf("kind=%s, want pass (res=%+v)", res.Kind, res)
	}
	// 主量 1200，贷记冲抵 800+900=1700（借记行不计），净额保底为零
	if res.Values["credit_notes"] != 1700 {
		t.Fatalf("credit_notes=%v, want 1700", res.Values["credit_notes"])
	}
	if res.Values["net_outward"] != 0 {
		t.Fatalf("net=%v, want 0 (floored)", res.Values["net_outward"])
	}
}

func TestNettingAmbiguousPrimaryIsAtomicError(t *testing.T) {
	t.Parallel()

	// 两列都能当应税额：要求唯一的主量不允许自动挑列
	grid := model.NewGrid([][]model.Cell{
		textRow("GSTIN", "Taxable Value", "Total Taxable Value", "IGST"),
		{},
		{model.TextCell("27A"), model.NumberCell(1000), model.NumberCell(1100), model.NumberCell(180)},
	})
	input := Input{Grids: map[string]*model.Grid{SourceGSTR1: grid}}

	report := newTestRunner().Run(input)
	res := resultByID(t, report, "outward_netting")
	if res.Kind != model.ResultError {
		t.Fatalf("kind=%s, want error for ambiguous uniqueness-required key", res.Kind)
	}
	// 歧义未决上报在 UnresolvedKeys，不能和整列缺失混在一起
	if len(res.UnresolvedKeys) != 1 || res.UnresolvedKeys[0] != model.KeyTaxableValue {
		t.Fatalf("unresolved keys=%v, want [taxable_value]", res.UnresolvedKeys)
	}
	if len(res.MissingKeys) != 0 {
		t.Fatalf("missing keys=%v, want empty for an ambiguity failure", res.MissingKeys)
	}
}

type declineNegotiator struct{}

func (declineNegotiator) Negotiate(model.AmbiguityRequest) (string, bool) {
	return "", false
}

func TestAtomicFailureSeparatesUnresolvedFromMissing(t *testing.T) {
	t.Parallel()

	// 协商被拒绝：歧义键按未决上报，与整列缺失区分开
	ambiguousDetail := model.NewGrid([][]model.Cell{
		textRow("GSTIN", "Taxable Value", "Total Taxable Value", "IGST", "CGST", "SGST"),
		{},
		{model.TextCell("27A"), model.NumberCell(1000), model.NumberCell(9999), model.NumberCell(180), model.NumberCell(0), model.NumberCell(0)},
	})
	input := Input{Grids: map[string]*model.Grid{
		SourceGSTR1: ambiguousDetail,
		SourceGSTR3B: summaryGrid(
			[]model.Cell{model.TextCell("072025"), model.NumberCell(1000), model.NumberCell(180), model.NumberCell(0), model.NumberCell(0)},
		),
	}}

	registry := parser.DefaultRegistry()
	resolver := resolve.NewResolver(registry, parser.NewClassifier(), resolve.NewCache(), declineNegotiator{})
	report := NewRunner(registry, resolver, nil).Run(input)

	res := resultByID(t, report, "liability_mismatch")
	if res.Kind != model.ResultError {
		t.Fatalf("kind=%s, want error after declined negotiation", res.Kind)
	}
	found := false
	for _, k := range res.UnresolvedKeys {
		if k == model.KeyTaxableValue {
			found = true
		}
	}
	if !found {
		t.Fatalf("unresolved keys %v must name taxable_value", res.UnresolvedKeys)
	}
	for _, k := range res.MissingKeys {
		if k == model.KeyTaxableValue {
			t.Fatalf("declined ambiguity must not be reported as a missing column")
		}
	}
}

func TestITCComparisonInfoWhenReconciliationSourceAbsent(t *testing.T) {
	t.Parallel()

	input := Input{Grids: map[string]*model.Grid{
		SourceGSTR3B: model.NewGrid([][]model.Cell{
			textRow("Return Period", "ITC IGST", "ITC CGST", "ITC SGST"),
			{},
			{model.TextCell("072025"), model.NumberCell(100), model.NumberCell(50), model.NumberCell(50)},
		}),
	}}

	report := newTestRunner().Run(input)
	res := resultByID(t, report, "itc_comparison")
	if res.Kind != model.ResultInfo {
		t.Fatalf("kind=%s, want info when 2A is absent", res.Kind)
	}
	if res.Values["itc_igst_claimed"] != 100 {
		t.Fatalf("claimed igst=%v, want 100", res.Values["itc_igst_claimed"])
	}
}

func TestITCComparisonFailOnExcessClaim(t *testing.T) {
	t.Parallel()

	input := Input{Grids: map[string]*model.Grid{
		SourceGSTR3B: model.NewGrid([][]model.Cell{
			textRow("Return Period", "ITC IGST", "ITC CGST", "ITC SGST"),
			{},
			{model.TextCell("072025"), model.NumberCell(300), model.NumberCell(0), model.NumberCell(0)},
		}),
		SourceGSTR2A: model.NewGrid([][]model.Cell{
			textRow("GSTIN of Supplier", "Taxable Value", "IGST", "CGST", "SGST"),
			{},
			[]model.Cell{model.TextCell("27A"), model.NumberCell(1000), model.NumberCell(180), model.NumberCell(0), model.NumberCell(0)},
		}),
	}}

	report := newTestRunner().Run(input)
	res := resultByID(t, report, "itc_comparison")
	if res.Kind != model.ResultFail {
		t.Fatalf("kind=%s, want fail (res=%+v)", res.Kind, res)
	}
	if res.Shortfall != 120 {
		t.Fatalf("shortfall=%v, want 120", res.Shortfall)
	}
}

func TestRunnerCollectsPendingAndReplaysAfterAnswer(t *testing.T) {
	t.Parallel()

	// 明细里两列命中应税额：liability 点挂起等待协商
	ambiguousDetail := model.NewGrid([][]model.Cell{
		textRow("GSTIN", "Taxable Value", "Total Taxable Value", "IGST", "CGST", "SGST"),
		{},
		{model.TextCell("27A"), model.NumberCell(1000), model.NumberCell(9999), model.NumberCell(180), model.NumberCell(0), model.NumberCell(0)},
	})
	input := Input{Grids: map[string]*model.Grid{
		SourceGSTR1: ambiguousDetail,
		SourceGSTR3B: summaryGrid(
			[]model.Cell{model.TextCell("072025"), model.NumberCell(1000), model.NumberCell(180), model.NumberCell(0), model.NumberCell(0)},
		),
	}}

	registry := parser.DefaultRegistry()
	resolver := resolve.NewResolver(registry, parser.NewClassifier(), resolve.NewCache(), nil)
	runner := NewRunner(registry, resolver, nil)

	report := runner.Run(input)
	res := resultByID(t, report, "liability_mismatch")
	if res.Kind != model.ResultInfo || len(res.PendingKeys) == 0 {
		t.Fatalf("ambiguous detail should leave the point pending, got %+v", res)
	}

	var req *model.AmbiguityRequest
	for i := range report.Pending {
		if report.Pending[i].Key == model.KeyTaxableValue {
			req = &report.Pending[i]
		}
	}
	if req == nil {
		t.Fatalf("report must carry the pending taxable_value request")
	}
	if len(req.Candidates) != 2 {
		t.Fatalf("candidates=%d, want 2 deduplicated", len(req.Candidates))
	}

	// 回填选择后重跑：命中缓存，得出确定结论，不再挂起
	resolver.Answer(model.Selection{CacheKey: req.CacheKey, NormalizedText: "taxable value"})
	report = runner.Run(input)
	res = resultByID(t, report, "liability_mismatch")
	if res.Kind != model.ResultPass {
		t.Fatalf("after answer kind=%s, want pass (res=%+v)", res.Kind, res)
	}
	for _, p := range report.Pending {
		if p.CacheKey == req.CacheKey {
			t.Fatalf("answered ambiguity must not be re-raised")
		}
	}
}
