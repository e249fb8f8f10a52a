package parser

import (
	"regexp"

	"github.com/manumurali010/gst-sub002/internal/model"
)

// Registry 规范键注册表
// 每个规范键对应一组有序的正则模式，匹配对象是规范化后的表头文本。
// 表内顺序只是书写顺序，任一模式命中即算命中。
// 进程启动时编译一次，之后只读，是"列名 X 是什么含义"的唯一事实来源
type Registry struct {
	patterns map[model.CanonicalKey][]*regexp.Regexp
	sources  map[model.CanonicalKey][]string
}

// defaultPatterns 各规范键的表头模式
// 写法来自各期 GSTR-1/2A/3B 导出文件中实际出现过的列名
var defaultPatterns = map[model.CanonicalKey][]string{
	model.KeyGSTIN: {
		`\bgstin\b`,
		`gstin of (the )?(supplier|recipient|taxpayer)`,
		`\bgst (no|number)\b`,
	},
	model.KeyLegalName: {
		`legal name`,
		`trade name`,
		`name of (the )?(supplier|recipient|taxpayer)`,
	},
	model.KeyInvoiceNo: {
		`invoice (no|number)`,
		`\binv no\b`,
		`bill (no|number)`,
		`document (no|number)`,
	},
	model.KeyInvoiceDate: {
		`invoice date`,
		`date of invoice`,
		`\binv date\b`,
		`document date`,
	},
	model.KeyInvoiceValue: {
		`invoice value`,
		`bill value`,
	},
	model.KeyTaxableValue: {
		`taxable value`,
		`taxable amount`,
		`assessable value`,
		`taxable turnover`,
	},
	model.KeyIGST: {
		`integrated tax`,
		`\bigst\b`,
		`\bi gst\b`,
	},
	model.KeyCGST: {
		`central tax`,
		`\bcgst\b`,
		`\bc gst\b`,
	},
	model.KeySGST: {
		`state ut tax`,
		`state tax`,
		`\bsgst\b`,
		`\bs gst\b`,
		`\butgst\b`,
	},
	model.KeyCess: {
		`\bcess\b`,
	},
	model.KeyRate: {
		`rate of tax`,
		`\brate\b`,
	},
	model.KeyPlaceOfSupply: {
		`place of supply`,
		`\bpos\b`,
	},
	model.KeyNoteType: {
		`note type`,
		`credit debit note type`,
		`document type`,
	},
	model.KeyNoteValue: {
		`note value`,
		`note amount`,
	},
	model.KeyReturnPeriod: {
		`return period`,
		`tax period`,
		`filing period`,
	},
	model.KeyTotalTax: {
		`total tax payable`,
		`total tax`,
		`tax payable`,
	},
	model.KeyITCIGST: {
		`itc.*integrated`,
		`input tax credit.*integrated`,
		`itc igst`,
		`igst credit`,
	},
	model.KeyITCCGST: {
		`itc.*central`,
		`input tax credit.*central`,
		`itc cgst`,
		`cgst credit`,
	},
	model.KeyITCSGST: {
		`itc.*state`,
		`input tax credit.*state`,
		`itc sgst`,
		`sgst credit`,
	},
}

var defaultRegistry = NewRegistry()

// NewRegistry 编译默认模式表创建注册表
// 模式写错属于配置错误，直接 panic 中止，不做降级
func NewRegistry() *Registry {
	r := &Registry{
		patterns: make(map[model.CanonicalKey][]*regexp.Regexp, len(defaultPatterns)),
		sources:  make(map[model.CanonicalKey][]string, len(defaultPatterns)),
	}
	for key, pats := range defaultPatterns {
		compiled := make([]*regexp.Regexp, 0, len(pats))
		for _, p := range pats {
			compiled = append(compiled, regexp.MustCompile(p))
		}
		r.patterns[key] = compiled
		r.sources[key] = pats
	}
	return r
}

// DefaultRegistry 进程级默认注册表
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Patterns 指定键的模式列表（书写顺序）
func (r *Registry) Patterns(key model.CanonicalKey) []string {
	return r.sources[key]
}

// Matches 规范化表头文本是否命中指定键
func (r *Registry) Matches(key model.CanonicalKey, normalized string) bool {
	for _, re := range r.patterns[key] {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

// MatchKeys 返回文本命中的全部规范键（按 AllKeys 顺序，保证确定性）
func (r *Registry) MatchKeys(normalized string) []model.CanonicalKey {
	var keys []model.CanonicalKey
	for _, key := range model.AllKeys() {
		if r.Matches(key, normalized) {
			keys = append(keys, key)
		}
	}
	return keys
}
