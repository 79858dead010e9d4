// Package document 定义结构化文档树模型以及可翻译文本的提取与回填。
package document

import (
	"fmt"
	"strings"
)

// Kind 文档节点类型
type Kind int

const (
	// KindObject 有序键值对象
	KindObject Kind = iota
	// KindSequence 有序列表
	KindSequence
	// KindScalar 标量（字符串/数字/布尔/空）
	KindScalar
)

// Value 结构化文档的一个节点，以带标签的变体表示对象/序列/标量
type Value struct {
	Kind Kind

	// Fields 仅在 Kind == KindObject 时有效，保持源文件的键顺序
	Fields []Field

	// Items 仅在 Kind == KindSequence 时有效
	Items []*Value

	// Str 仅在标量为字符串时有效
	Str   string
	IsStr bool

	// Raw 非字符串标量的原始值（bool/int64/float64/json.Number/nil）
	Raw interface{}
}

// Field 对象中的一个键值对
type Field struct {
	Key   string
	Value *Value
}

// NewObject 创建对象节点
func NewObject(fields ...Field) *Value {
	return &Value{Kind: KindObject, Fields: fields}
}

// NewSequence 创建序列节点
func NewSequence(items ...*Value) *Value {
	return &Value{Kind: KindSequence, Items: items}
}

// NewString 创建字符串标量节点
func NewString(s string) *Value {
	return &Value{Kind: KindScalar, Str: s, IsStr: true}
}

// NewScalar 创建非字符串标量节点
func NewScalar(v interface{}) *Value {
	return &Value{Kind: KindScalar, Raw: v}
}

// Clone 深拷贝文档树
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindObject:
		fields := make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = Field{Key: f.Key, Value: f.Value.Clone()}
		}
		return &Value{Kind: KindObject, Fields: fields}
	case KindSequence:
		items := make([]*Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = item.Clone()
		}
		return &Value{Kind: KindSequence, Items: items}
	default:
		return &Value{Kind: KindScalar, Str: v.Str, IsStr: v.IsStr, Raw: v.Raw}
	}
}

// Equal 判断两棵文档树在结构和值上是否完全一致
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindObject:
		if len(v.Fields) != len(other.Fields) {
			return false
		}
		for i, f := range v.Fields {
			if f.Key != other.Fields[i].Key || !f.Value.Equal(other.Fields[i].Value) {
				return false
			}
		}
		return true
	case KindSequence:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i, item := range v.Items {
			if !item.Equal(other.Items[i]) {
				return false
			}
		}
		return true
	default:
		if v.IsStr != other.IsStr {
			return false
		}
		if v.IsStr {
			return v.Str == other.Str
		}
		return fmt.Sprintf("%v", v.Raw) == fmt.Sprintf("%v", other.Raw)
	}
}

// childKey 构造对象字段的路径键
func childKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// indexKey 构造序列元素的路径键
func indexKey(prefix string, idx int) string {
	var b strings.Builder
	b.WriteString(prefix)
	fmt.Fprintf(&b, "[%d]", idx)
	return b.String()
}
