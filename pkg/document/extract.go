package document

import (
	"regexp"
	"strings"
	"unicode"
)

// FilterOptions 控制可翻译文本的过滤阈值。
// 启发式偏向精确率：宁可漏翻真实文案，也不能污染标识符。
type FilterOptions struct {
	// MinAlphaChars 标识符形态的字符串中字母数少于该值时不参与翻译
	MinAlphaChars int
	// MaxIdentifierLen 短于该长度且没有自然语言特征的标识符形态字符串不参与翻译
	MaxIdentifierLen int
}

// DefaultFilterOptions 返回默认过滤阈值
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		MinAlphaChars:    3,
		MaxIdentifierLen: 30,
	}
}

// identifierPattern 匹配标识符/路径/代号形态的字符串
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_\-./]+$`)

// IsTranslatable 判断一个字符串叶子是否应参与翻译
func IsTranslatable(s string, opts FilterOptions) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	if !identifierPattern.MatchString(s) {
		return true
	}

	alpha := 0
	natural := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			alpha++
			// 字母表靠后的字符几乎不会出现在十六进制式的代号里，
			// 将其视为自然语言信号
			if unicode.ToLower(r) > 'f' {
				natural = true
			}
		}
	}
	if alpha < opts.MinAlphaChars {
		return false
	}
	if len(s) < opts.MaxIdentifierLen && !natural {
		return false
	}
	return true
}

// Extract 遍历文档树，返回路径键到可翻译文本的映射。
// 路径键在同一棵树内对每个标量叶子唯一。
func Extract(doc *Value, opts FilterOptions) map[string]string {
	texts := make(map[string]string)
	extractInto(doc, "", opts, texts)
	return texts
}

func extractInto(v *Value, prefix string, opts FilterOptions, out map[string]string) {
	if v == nil {
		return
	}
	switch v.Kind {
	case KindObject:
		for _, f := range v.Fields {
			extractInto(f.Value, childKey(prefix, f.Key), opts, out)
		}
	case KindSequence:
		for i, item := range v.Items {
			extractInto(item, indexKey(prefix, i), opts, out)
		}
	case KindScalar:
		if v.IsStr && IsTranslatable(v.Str, opts) {
			out[prefix] = v.Str
		}
	}
}

// Apply 将翻译结果回填为一棵结构完全一致的新树。
// 不在结果映射中的叶子保留原值；输入树不会被修改。
func Apply(doc *Value, translations map[string]string) *Value {
	return applyAt(doc, "", translations)
}

func applyAt(v *Value, prefix string, translations map[string]string) *Value {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindObject:
		fields := make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = Field{Key: f.Key, Value: applyAt(f.Value, childKey(prefix, f.Key), translations)}
		}
		return &Value{Kind: KindObject, Fields: fields}
	case KindSequence:
		items := make([]*Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = applyAt(item, indexKey(prefix, i), translations)
		}
		return &Value{Kind: KindSequence, Items: items}
	default:
		if v.IsStr {
			if translated, ok := translations[prefix]; ok {
				return NewString(translated)
			}
			return NewString(v.Str)
		}
		return &Value{Kind: KindScalar, Raw: v.Raw}
	}
}
