package analysis

import (
	"log"

	"github.com/manumurali010/gst-sub002/internal/model"
	"github.com/manumurali010/gst-sub002/internal/parser"
	"github.com/manumurali010/gst-sub002/internal/service/resolve"
)

// Runner 分析点调度器
// 单线程顺序执行，键按各分析点请求顺序解析；
// 唯一的挂起点在解析器内部的歧义边界上
type Runner struct {
	registry *parser.Registry
	resolver *resolve.Resolver
	points   []Point
	scanCfg  parser.ScanConfig
}

// DefaultPoints 内置分析点
func DefaultPoints() []Point {
	return []Point{
		LiabilityMismatchPoint{},
		ITCComparisonPoint{},
		OutwardNettingPoint{},
	}
}

// NewRunner 创建调度器
func NewRunner(registry *parser.Registry, resolver *resolve.Resolver, points []Point) *Runner {
	if registry == nil {
		registry = parser.DefaultRegistry()
	}
	if resolver == nil {
		resolver = resolve.NewResolver(registry, nil, nil, nil)
	}
	if points == nil {
		points = DefaultPoints()
	}
	return &Runner{
		registry: registry,
		resolver: resolver,
		points:   points,
		scanCfg:  parser.DefaultScanConfig(),
	}
}

// SetScanConfig 覆盖默认扫描参数
func (r *Runner) SetScanConfig(cfg parser.ScanConfig) {
	r.scanCfg = cfg
}

// Run 在一组网格上跑全部分析点
// 挂起的歧义请求汇总到报告里，由宿主呈现给人并回填选择后重跑
func (r *Runner) Run(input Input) model.ScanReport {
	env := NewEnv(r.registry, r.resolver, r.scanCfg)

	results := make([]model.PointResult, 0, len(r.points))
	for _, p := range r.points {
		res := p.Run(env, input)
		if res.Kind == model.ResultError {
			log.Printf("分析点 %s 原子失败, 缺失键: %v", p.ID(), res.MissingKeys)
		}
		results = append(results, res)
	}

	return model.ScanReport{
		Results: results,
		Pending: env.PendingRequests(),
	}
}
