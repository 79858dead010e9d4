package translation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/nerdneilsfield/go-doc-translator/pkg/document"
)

// fencedJSONPattern 匹配围栏代码块中的 JSON 对象。
// 懒惰匹配跨行内容，使用 regexp2 与其它 LLM 响应解析保持一致。
var fencedJSONPattern = regexp2.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```", regexp2.IgnoreCase)

// ExtractJSONObject 从自由格式的响应文本中提取一个 JSON 对象。
// 依次尝试：围栏代码块 → 首个 '{' 到最后一个 '}' 的子串 → 原文。
// 解析失败或结果不是对象时返回 ErrMalformedResponse。
func ExtractJSONObject(raw string) (map[string]interface{}, error) {
	jsonText := raw

	if m, _ := fencedJSONPattern.FindStringMatch(raw); m != nil {
		jsonText = m.Groups()[1].String()
	} else {
		first := strings.Index(raw, "{")
		last := strings.LastIndex(raw, "}")
		if first != -1 && last > first {
			jsonText = raw[first : last+1]
		}
	}

	jsonText = strings.TrimSpace(jsonText)
	if len(jsonText) >= 4 && strings.EqualFold(jsonText[:4], "json") {
		jsonText = strings.TrimSpace(jsonText[4:])
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	obj, ok := parsed.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedResponse)
	}
	return obj, nil
}

// ValidationResult 一次响应校验的结果
type ValidationResult struct {
	// Translations 只包含请求中的路径键
	Translations map[string]string

	// MissingKeys 请求了但响应中缺失（或值不是字符串）的键
	MissingKeys []string

	// ExtraKeys 响应中多出的键，已从结果中剔除（修复而非失败）
	ExtraKeys []string

	// NoOp 所有值都与输入相同，通常意味着服务原样回显了输入
	NoOp bool
}

// ValidateResponse 校验并修复一次外部响应。
// 缺键返回 ErrMissingKeys（结果仍带回已得到的部分以便诊断）；
// 多余的键被剔除并记录在 ExtraKeys 中，不算失败。
func ValidateResponse(raw string, batch document.Batch) (*ValidationResult, error) {
	obj, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	res := &ValidationResult{
		Translations: make(map[string]string, len(batch.Entries)),
	}

	for _, key := range batch.Keys() {
		v, ok := obj[key]
		if !ok {
			res.MissingKeys = append(res.MissingKeys, key)
			continue
		}
		s, ok := v.(string)
		if !ok {
			// 非字符串值会破坏文档结构，按缺失处理
			res.MissingKeys = append(res.MissingKeys, key)
			continue
		}
		res.Translations[key] = s
	}

	for k := range obj {
		if _, expected := batch.Entries[k]; !expected {
			res.ExtraKeys = append(res.ExtraKeys, k)
		}
	}
	sort.Strings(res.ExtraKeys)

	if len(res.MissingKeys) > 0 {
		return res, fmt.Errorf("%w: %v", ErrMissingKeys, res.MissingKeys)
	}

	res.NoOp = true
	for key, original := range batch.Entries {
		if res.Translations[key] != original {
			res.NoOp = false
			break
		}
	}
	return res, nil
}
