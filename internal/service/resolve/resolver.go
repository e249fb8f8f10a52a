package resolve

import (
	"sort"

	"github.com/google/uuid"

	"github.com/manumurali010/gst-sub002/internal/model"
	"github.com/manumurali010/gst-sub002/internal/parser"
)

// OutcomeKind 解析结论类型
// 普通的缺失/歧义不是错误，全部用返回值表达
type OutcomeKind string

const (
	OutcomeResolved   OutcomeKind = "resolved"   // 唯一确定了列
	OutcomeNotFound   OutcomeKind = "not_found"  // 零候选，是否致命由调用方决定
	OutcomeUnresolved OutcomeKind = "unresolved" // 多候选且没有（或拒绝了）决议
	OutcomePending    OutcomeKind = "pending"    // 已挂起，等待外部决策方回答
)

// Outcome 一次列解析的结论
// NotFound 和 Unresolved 是两种不同的失败：前者缺数据，后者缺决策，
// 不允许混为一谈
type Outcome struct {
	Kind    OutcomeKind             `json:"kind"`
	Column  int                     `json:"column"` // 解出的列索引，未解出为 -1
	Request *model.AmbiguityRequest `json:"request,omitempty"`
}

// Options 单次解析的策略开关
type Options struct {
	AllowNegotiation  bool // 允许走协商通道
	RequireUniqueness bool // 多候选一律不解析（高风险量，选错列会产出貌似合理的错数）
}

// Negotiator 歧义协商通道
// 同步请求/应答握手：返回选中的规范化表头文本，
// ok=false 表示拒绝或通道已关闭，引擎绝不猜测
type Negotiator interface {
	Negotiate(req model.AmbiguityRequest) (selected string, ok bool)
}

// Resolver 列解析器
// 缓存是显式注入的状态，批处理方可以按逻辑会话各建一份
type Resolver struct {
	registry   *parser.Registry
	classifier *parser.Classifier
	cache      *Cache
	negotiator Negotiator
}

// NewResolver 创建解析器，negotiator 可为 nil（挂起以 Pending 结论返回）
func NewResolver(registry *parser.Registry, classifier *parser.Classifier, cache *Cache, negotiator Negotiator) *Resolver {
	if registry == nil {
		registry = parser.DefaultRegistry()
	}
	if classifier == nil {
		classifier = parser.NewClassifier()
	}
	if cache == nil {
		cache = NewCache()
	}
	return &Resolver{
		registry:   registry,
		classifier: classifier,
		cache:      cache,
		negotiator: negotiator,
	}
}

// Cache 返回注入的缓存
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve 在表头映射里解析规范键对应的列
//
// 零候选 → NotFound；唯一候选 → 立即返回列。
// 多候选时：requireUniqueness 一律 Unresolved（缓存也不用）；
// 不允许协商则取列序最靠前的候选；否则先查缓存，
// 缓存未命中再走协商通道挂起。决议写入缓存后，
// 对同一网格重放必然得到相同列（幂等）
func (r *Resolver) Resolve(headerMap model.HeaderMap, key model.CanonicalKey, scopeID string, opts Options) Outcome {
	matches := r.collectMatches(headerMap, key)

	if len(matches) == 0 {
		return Outcome{Kind: OutcomeNotFound, Column: -1}
	}
	if len(matches) == 1 {
		return Outcome{Kind: OutcomeResolved, Column: matches[0].ColumnIndex}
	}

	if opts.RequireUniqueness {
		return Outcome{Kind: OutcomeUnresolved, Column: -1}
	}
	if !opts.AllowNegotiation {
		// 低风险元数据列：取稳定输入序里的第一个
		return Outcome{Kind: OutcomeResolved, Column: matches[0].ColumnIndex}
	}

	cacheKey := CacheKey(scopeID, key)
	if cached, ok := r.cache.Lookup(cacheKey); ok {
		if col, ok := columnForText(matches, cached); ok {
			return Outcome{Kind: OutcomeResolved, Column: col}
		}
		// 缓存的表头文本在这张网格里不存在：正常的"无匹配"，
		// 缓存只追加，不能为同一键再协商出冲突值
		return Outcome{Kind: OutcomeUnresolved, Column: -1}
	}

	req := r.buildRequest(scopeID, key, cacheKey, matches)
	if r.negotiator == nil {
		return Outcome{Kind: OutcomePending, Column: -1, Request: &req}
	}

	selected, ok := r.negotiator.Negotiate(req)
	if !ok {
		return Outcome{Kind: OutcomeUnresolved, Column: -1}
	}
	col, ok := columnForText(matches, selected)
	if !ok {
		return Outcome{Kind: OutcomeUnresolved, Column: -1}
	}
	r.cache.Put(cacheKey, selected)
	return Outcome{Kind: OutcomeResolved, Column: col}
}

// Answer 外部决策方回填选择
// 选中文本写入缓存后，重新 Resolve 即可命中，不会二次协商
func (r *Resolver) Answer(sel model.Selection) {
	r.cache.Put(sel.CacheKey, sel.NormalizedText)
}

// collectMatches 收集命中该键的全部表头命中，按列索引升序
func (r *Resolver) collectMatches(headerMap model.HeaderMap, key model.CanonicalKey) []model.HeaderMatch {
	var matches []model.HeaderMatch
	for norm, hits := range headerMap {
		if r.registry.Matches(key, norm) {
			matches = append(matches, hits...)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ColumnIndex < matches[j].ColumnIndex
	})
	return matches
}

// buildRequest 构建歧义协商请求
// 候选按规范化文本去重（保持列序），再交给分类器打标签
func (r *Resolver) buildRequest(scopeID string, key model.CanonicalKey, cacheKey string, matches []model.HeaderMatch) model.AmbiguityRequest {
	seen := make(map[string]struct{}, len(matches))
	options := make([]model.CandidateOption, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.NormalizedText]; ok {
			continue
		}
		seen[m.NormalizedText] = struct{}{}
		options = append(options, model.CandidateOption{
			Label:          m.OriginalText,
			NormalizedText: m.NormalizedText,
			OriginalText:   m.OriginalText,
		})
	}

	return model.AmbiguityRequest{
		ID:         uuid.New().String(),
		ScopeID:    scopeID,
		Key:        key,
		CacheKey:   cacheKey,
		Candidates: r.classifier.Classify(scopeID, key, options),
	}
}

// columnForText 选出指定规范化文本对应的列（重复表头取最靠前一列）
func columnForText(matches []model.HeaderMatch, normalized string) (int, bool) {
	for _, m := range matches {
		if m.NormalizedText == normalized {
			return m.ColumnIndex, true
		}
	}
	return -1, false
}
