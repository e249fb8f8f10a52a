package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	punctRe      = regexp.MustCompile(`[()\[\]{},.:;/\\|*'"?!_-]+`)
	currencyRe   = regexp.MustCompile(`₹|rs\.?\s|inr\b|lakhs?\b|crores?\b`)
	numericRe    = regexp.MustCompile(`^-?[\d,]+(\.\d+)?%?$`)
)

// NormalizeHeader 规范化表头文本
// 小写化、去货币符号、标点转空格、压缩空白。
// 注册表的所有模式都针对规范化后的文本匹配
func NormalizeHeader(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	s = currencyRe.ReplaceAllString(s, " ")
	s = punctRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IsNumericText 文本是否可按数字解析（允许千分位和百分号）
func IsNumericText(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return numericRe.MatchString(s)
}

// ParseNumber 解析数值文本，去掉千分位、货币符号和百分号
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ContainsAny 文本是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ContainsAll 文本是否包含全部关键词
func ContainsAll(text string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}
