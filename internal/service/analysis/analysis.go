// Package analysis 在列解析引擎之上实现各个稽核分析点。
// 每个分析点用自己的 scopeId 向解析器要列，按风险档位选择策略：
// 原子点要求全部必需键解出，否则整体报错并点名缺失键；
// 尽力点对可选来源缺失降级为 info 结论；
// 冲抵点把"冲抵行不存在"当作冲抵量为零，而不是错误。
package analysis

import (
	"github.com/manumurali010/gst-sub002/internal/model"
	"github.com/manumurali010/gst-sub002/internal/parser"
	"github.com/manumurali010/gst-sub002/internal/service/resolve"
)

// 逻辑数据来源名（网格按来源注入，文件解码是调用方的事）
const (
	SourceGSTR1  = "gstr1"  // 销项明细
	SourceGSTR3B = "gstr3b" // 申报汇总
	SourceGSTR2A = "gstr2a" // 进项对账
)

// Input 分析输入：逻辑来源 → 网格
type Input struct {
	Grids map[string]*model.Grid
}

// Grid 取指定来源的网格，没有返回 nil
func (in Input) Grid(source string) *model.Grid {
	if in.Grids == nil {
		return nil
	}
	return in.Grids[source]
}

// Point 分析点
// Run 必须是纯函数式的：同样的网格和缓存状态得到同样的结论
type Point interface {
	ID() string
	ScopeID() string
	Run(env *Env, input Input) model.PointResult
}

// Env 分析点的运行环境
type Env struct {
	Registry *parser.Registry
	Resolver *resolve.Resolver
	ScanCfg  parser.ScanConfig // 本轮扫描基准参数，各分析点在其上做点级覆盖

	pending      map[string]model.AmbiguityRequest // cacheKey → 请求，跨键去重
	pendingOrder []string                          // cacheKey 收集顺序，保证报告输出确定
}

// NewEnv 创建运行环境
func NewEnv(registry *parser.Registry, resolver *resolve.Resolver, scanCfg parser.ScanConfig) *Env {
	if registry == nil {
		registry = parser.DefaultRegistry()
	}
	return &Env{
		Registry: registry,
		Resolver: resolver,
		ScanCfg:  scanCfg,
		pending:  make(map[string]model.AmbiguityRequest),
	}
}

// Scan 用指定参数扫描某来源的网格
func (e *Env) Scan(input Input, source string, cfg parser.ScanConfig) model.ScanResult {
	grid := input.Grid(source)
	if grid == nil {
		return model.NotFoundScan()
	}
	return parser.NewScanner(e.Registry, cfg).Scan(grid)
}

// PendingRequests 本轮收集到的全部歧义请求（按收集顺序）
func (e *Env) PendingRequests() []model.AmbiguityRequest {
	out := make([]model.AmbiguityRequest, 0, len(e.pending))
	for _, cacheKey := range e.pendingOrder {
		out = append(out, e.pending[cacheKey])
	}
	return out
}

// keySet 一批键的解析结果
type keySet struct {
	cols       map[model.CanonicalKey]int
	missing    []model.CanonicalKey // NotFound
	unresolved []model.CanonicalKey // 歧义未决（含被拒绝）
	pendingKey []model.CanonicalKey // 已挂起等待协商
}

func (ks keySet) complete() bool {
	return len(ks.missing) == 0 && len(ks.unresolved) == 0 && len(ks.pendingKey) == 0
}

// resolveKeys 按请求顺序逐键解析
// Pending 结论的请求按 cacheKey 去重后汇入环境，一次扫描同一
// (scopeId, key) 最多出现一个请求
func (e *Env) resolveKeys(headerMap model.HeaderMap, scopeID string, keys []model.CanonicalKey, opts resolve.Options) keySet {
	ks := keySet{cols: make(map[model.CanonicalKey]int, len(keys))}
	for _, key := range keys {
		out := e.Resolver.Resolve(headerMap, key, scopeID, opts)
		switch out.Kind {
		case resolve.OutcomeResolved:
			ks.cols[key] = out.Column
		case resolve.OutcomeNotFound:
			ks.missing = append(ks.missing, key)
		case resolve.OutcomeUnresolved:
			ks.unresolved = append(ks.unresolved, key)
		case resolve.OutcomePending:
			ks.pendingKey = append(ks.pendingKey, key)
			e.notePending(out.Request)
		}
	}
	return ks
}

// notePending 登记挂起的歧义请求，按 cacheKey 去重
func (e *Env) notePending(req *model.AmbiguityRequest) {
	if req == nil {
		return
	}
	if _, ok := e.pending[req.CacheKey]; ok {
		return
	}
	e.pending[req.CacheKey] = *req
	e.pendingOrder = append(e.pendingOrder, req.CacheKey)
}

// sumColumn 汇总数据区一列的数值
// 表头已确认存在时，空数据单元格按零计
func sumColumn(grid *model.Grid, col, startRow int) float64 {
	total := 0.0
	for row := startRow; row < grid.RowCount(); row++ {
		cell := grid.Cell(row, col)
		switch cell.Kind {
		case model.CellNumber:
			total += cell.Number
		case model.CellText:
			if v, ok := parser.ParseNumber(cell.Text); ok {
				total += v
			}
		}
	}
	return total
}
