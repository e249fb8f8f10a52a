package parser

import (
	"strings"

	"github.com/manumurali010/gst-sub002/internal/model"
)

// classifierCue 分类线索
// Recommend 命中任一且未命中 Demote 时标为推荐；
// Demote 用来压低表面命中同一规范键、实际是另一种量的列
// （比如请求 taxable value 时出现的 "tax deducted" 列）
type classifierCue struct {
	Recommend []string
	Demote    []string
}

// Classifier 歧义候选分类器
// 只给候选项打 recommended/other 标签供人工决策参考，
// 不改变候选集合，也绝不代替协商通道自动选择
type Classifier struct {
	defaults  map[model.CanonicalKey]classifierCue
	scopeCues map[string]map[model.CanonicalKey]classifierCue
}

// NewClassifier 创建分类器
func NewClassifier() *Classifier {
	return &Classifier{
		defaults: map[model.CanonicalKey]classifierCue{
			model.KeyTaxableValue: {
				Recommend: []string{"taxable value"},
				Demote:    []string{"tax deducted", "tds", "tcs"},
			},
			model.KeyIGST: {
				Recommend: []string{"integrated tax", "igst"},
				Demote:    []string{"itc", "input tax credit", "credit availed", "tds", "tcs"},
			},
			model.KeyCGST: {
				Recommend: []string{"central tax", "cgst"},
				Demote:    []string{"itc", "input tax credit", "credit availed", "tds", "tcs"},
			},
			model.KeySGST: {
				Recommend: []string{"state tax", "state ut tax", "sgst"},
				Demote:    []string{"itc", "input tax credit", "credit availed", "tds", "tcs"},
			},
			model.KeyInvoiceValue: {
				Recommend: []string{"invoice value"},
				Demote:    []string{"taxable"},
			},
			model.KeyNoteValue: {
				Recommend: []string{"note value"},
				Demote:    []string{"invoice"},
			},
		},
		scopeCues: map[string]map[model.CanonicalKey]classifierCue{
			// ITC 比对点里请求税目列时，带 ITC 字样的才是要的列
			"itc_comparison": {
				model.KeyITCIGST: {Recommend: []string{"itc", "input tax credit"}},
				model.KeyITCCGST: {Recommend: []string{"itc", "input tax credit"}},
				model.KeyITCSGST: {Recommend: []string{"itc", "input tax credit"}},
			},
			// 冲抵点里请求 note_value，贷记票据列优先
			"outward_netting": {
				model.KeyNoteValue: {
					Recommend: []string{"credit note", "note value"},
					Demote:    []string{"debit"},
				},
			},
		},
	}
}

// Classify 给歧义候选项打分类标签
// 候选集合与顺序保持不变，只填 Category 字段
func (c *Classifier) Classify(scopeID string, key model.CanonicalKey, options []model.CandidateOption) []model.CandidateOption {
	cue, ok := c.lookupCue(scopeID, key)

	out := make([]model.CandidateOption, len(options))
	for i, opt := range options {
		opt.Category = model.CategoryOther
		if ok && c.isRecommended(cue, opt.NormalizedText) {
			opt.Category = model.CategoryRecommended
		}
		out[i] = opt
	}
	return out
}

func (c *Classifier) lookupCue(scopeID string, key model.CanonicalKey) (classifierCue, bool) {
	// scopeId 可能带子变体后缀（如 "itc_comparison/claimed"），线索按分析点配置
	if i := strings.Index(scopeID, "/"); i >= 0 {
		scopeID = scopeID[:i]
	}
	if byKey, ok := c.scopeCues[scopeID]; ok {
		if cue, ok := byKey[key]; ok {
			return cue, true
		}
	}
	cue, ok := c.defaults[key]
	return cue, ok
}

func (c *Classifier) isRecommended(cue classifierCue, normalized string) bool {
	if ContainsAny(normalized, cue.Demote) {
		return false
	}
	return ContainsAny(normalized, cue.Recommend)
}
