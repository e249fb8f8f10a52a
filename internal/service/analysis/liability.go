package analysis

import (
	"fmt"

	"github.com/manumurali010/gst-sub002/internal/model"
	"github.com/manumurali010/gst-sub002/internal/service/resolve"
)

// 浮点汇总比较的容差（卢比）
const amountEpsilon = 0.01

// LiabilityMismatchPoint 税负差异点（原子策略）
// 比对 GSTR-1 明细汇总与 GSTR-3B 申报额。
// 必需键任何一个没解出，整个点按结构性失败上报并点名缺失键，
// 绝不拿零值顶替必需列
type LiabilityMismatchPoint struct{}

// liabilityKeys 两边都必须解出的规范键
var liabilityKeys = []model.CanonicalKey{
	model.KeyTaxableValue,
	model.KeyIGST,
	model.KeyCGST,
	model.KeySGST,
}

func (p LiabilityMismatchPoint) ID() string      { return "liability_mismatch" }
func (p LiabilityMismatchPoint) ScopeID() string { return "liability_mismatch" }

// Run 执行比对
func (p LiabilityMismatchPoint) Run(env *Env, input Input) model.PointResult {
	result := model.PointResult{PointID: p.ID(), ScopeID: p.ScopeID()}

	detailScan := env.Scan(input, SourceGSTR1, env.ScanCfg)
	// 3B 汇总导出文件开头常有大段申报人信息，显式启用二次探测
	summaryCfg := env.ScanCfg
	summaryCfg.SecondaryProbe = true
	summaryScan := env.Scan(input, SourceGSTR3B, summaryCfg)

	if !detailScan.Found() || !summaryScan.Found() {
		result.Kind = model.ResultError
		result.MissingKeys = liabilityKeys
		result.Reason = "header block not found in source grids"
		return result
	}

	opts := resolve.Options{AllowNegotiation: true}
	detail := env.resolveKeys(detailScan.HeaderMap, p.ScopeID()+"/detail", liabilityKeys, opts)
	summary := env.resolveKeys(summaryScan.HeaderMap, p.ScopeID()+"/summary", liabilityKeys, opts)

	if pending := append(append([]model.CanonicalKey{}, detail.pendingKey...), summary.pendingKey...); len(pending) > 0 {
		result.Kind = model.ResultInfo
		result.Reason = "awaiting column selection"
		result.PendingKeys = pending
		return result
	}
	if !detail.complete() || !summary.complete() {
		// 缺列和歧义未决是两种失败：前者缺数据，后者缺决策，分开上报
		result.Kind = model.ResultError
		result.MissingKeys = append(append([]model.CanonicalKey{}, detail.missing...), summary.missing...)
		result.UnresolvedKeys = append(append([]model.CanonicalKey{}, detail.unresolved...), summary.unresolved...)
		return result
	}

	values := make(map[string]float64, len(liabilityKeys)*2)
	shortfall := 0.0
	for _, key := range liabilityKeys {
		declared := sumColumn(input.Grid(SourceGSTR3B), summary.cols[key], summaryScan.DataStartRow)
		detailed := sumColumn(input.Grid(SourceGSTR1), detail.cols[key], detailScan.DataStartRow)
		values[fmt.Sprintf("%s_declared", key)] = declared
		values[fmt.Sprintf("%s_detailed", key)] = detailed
		if diff := detailed - declared; diff > amountEpsilon {
			shortfall += diff
		}
	}

	result.Values = values
	result.Shortfall = shortfall
	if shortfall > amountEpsilon {
		result.Kind = model.ResultFail
	} else {
		result.Kind = model.ResultPass
	}
	return result
}
