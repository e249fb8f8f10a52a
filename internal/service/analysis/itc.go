package analysis

import (
	"github.com/manumurali010/gst-sub002/internal/model"
	"github.com/manumurali010/gst-sub002/internal/service/resolve"
)

// ITCComparisonPoint 进项抵扣比对点（尽力策略）
// 比对 3B 申报抵扣额与 2A 可抵扣额。
// 可选来源（2A）缺失时不做定性结论，只报 info；
// 单个可选键缺列按零参与计算并在取值里留痕
type ITCComparisonPoint struct{}

var itcKeys = []model.CanonicalKey{
	model.KeyITCIGST,
	model.KeyITCCGST,
	model.KeyITCSGST,
}

func (p ITCComparisonPoint) ID() string      { return "itc_comparison" }
func (p ITCComparisonPoint) ScopeID() string { return "itc_comparison" }

// Run 执行比对
func (p ITCComparisonPoint) Run(env *Env, input Input) model.PointResult {
	result := model.PointResult{PointID: p.ID(), ScopeID: p.ScopeID()}

	claimScan := env.Scan(input, SourceGSTR3B, env.ScanCfg)
	if !claimScan.Found() {
		result.Kind = model.ResultInfo
		result.Reason = "claim source (GSTR-3B) unavailable"
		return result
	}

	opts := resolve.Options{AllowNegotiation: true}
	claimed := env.resolveKeys(claimScan.HeaderMap, p.ScopeID()+"/claimed", itcKeys, opts)
	if len(claimed.pendingKey) > 0 {
		result.Kind = model.ResultInfo
		result.Reason = "awaiting column selection"
		result.PendingKeys = claimed.pendingKey
		return result
	}

	values := make(map[string]float64)
	claimedTotal := 0.0
	for _, key := range itcKeys {
		// 尽力策略：缺列按零计，但在取值里保留 0 条目供人工核对
		v := 0.0
		if col, ok := claimed.cols[key]; ok {
			v = sumColumn(input.Grid(SourceGSTR3B), col, claimScan.DataStartRow)
		}
		values[string(key)+"_claimed"] = v
		claimedTotal += v
	}
	// 可选键：cess 抵扣，缺失按零
	cessOut := env.Resolver.Resolve(claimScan.HeaderMap, model.KeyCess, p.ScopeID()+"/claimed", resolve.Options{})
	if cessOut.Kind == resolve.OutcomeResolved {
		v := sumColumn(input.Grid(SourceGSTR3B), cessOut.Column, claimScan.DataStartRow)
		values["cess_claimed"] = v
		claimedTotal += v
	}

	availScan := env.Scan(input, SourceGSTR2A, env.ScanCfg)
	if !availScan.Found() {
		// 对账来源缺失时比对没有意义，不报 pass/fail
		result.Kind = model.ResultInfo
		result.Reason = "reconciliation source (GSTR-2A) unavailable"
		result.Values = values
		return result
	}

	availableTotal := 0.0
	availKeys := []model.CanonicalKey{model.KeyIGST, model.KeyCGST, model.KeySGST}
	avail := env.resolveKeys(availScan.HeaderMap, p.ScopeID()+"/available", availKeys, opts)
	if len(avail.pendingKey) > 0 {
		result.Kind = model.ResultInfo
		result.Reason = "awaiting column selection"
		result.PendingKeys = avail.pendingKey
		return result
	}
	for _, key := range availKeys {
		v := 0.0
		if col, ok := avail.cols[key]; ok {
			v = sumColumn(input.Grid(SourceGSTR2A), col, availScan.DataStartRow)
		}
		values[string(key)+"_available"] = v
		availableTotal += v
	}

	values["claimed_total"] = claimedTotal
	values["available_total"] = availableTotal
	result.Values = values

	if excess := claimedTotal - availableTotal; excess > amountEpsilon {
		result.Kind = model.ResultFail
		result.Shortfall = excess
	} else {
		result.Kind = model.ResultPass
	}
	return result
}
