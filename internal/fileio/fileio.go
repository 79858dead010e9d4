// Package fileio 负责 YAML/JSON 文档的读写，保持键顺序、
// 标量类型和注释之外的结构细节不变。
package fileio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nerdneilsfield/go-doc-translator/pkg/document"
)

// Format 文档的序列化格式
type Format int

const (
	// FormatYAML .yml / .yaml 文件
	FormatYAML Format = iota
	// FormatJSON .json 文件
	FormatJSON
)

// String 实现 fmt.Stringer
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// DetectFormat 按扩展名判断文件格式
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("unsupported file extension %q (expected .yml, .yaml or .json)", filepath.Ext(path))
	}
}

// Load 读取并解析一个文档文件
func Load(path string) (*document.Value, Format, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc *document.Value
	switch format {
	case FormatJSON:
		doc, err = decodeJSON(data)
	default:
		doc, err = decodeYAML(data)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc == nil {
		return nil, 0, fmt.Errorf("parsing %s: document is empty", path)
	}
	return doc, format, nil
}

// Save 将文档树按指定格式写入文件
func Save(path string, doc *document.Value, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = encodeJSON(doc)
	default:
		data, err = encodeYAML(doc)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ---- YAML ----

// yamlScalar 包装非字符串标量的原始节点，保留 tag 和字面值以便
// 回写时原样输出。String 返回字面值，使树比较按内容进行。
type yamlScalar struct {
	node *yaml.Node
}

func (s yamlScalar) String() string { return s.node.Value }

func decodeYAML(data []byte) (*document.Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		return fromYAMLNode(root.Content[0])
	}
	if root.Kind == 0 {
		return nil, nil
	}
	return fromYAMLNode(&root)
}

// fromYAMLNode 把 yaml.Node 转换成文档树。
// 非字符串标量保留原始节点，回写时原样输出。
func fromYAMLNode(n *yaml.Node) (*document.Value, error) {
	switch n.Kind {
	case yaml.MappingNode:
		fields := make([]document.Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			val, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			fields = append(fields, document.Field{Key: n.Content[i].Value, Value: val})
		}
		return document.NewObject(fields...), nil
	case yaml.SequenceNode:
		items := make([]*document.Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return document.NewSequence(items...), nil
	case yaml.ScalarNode:
		if n.Tag == "!!str" || n.Tag == "" {
			return document.NewString(n.Value), nil
		}
		return document.NewScalar(yamlScalar{node: n}), nil
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	default:
		return nil, fmt.Errorf("unsupported YAML node kind %d at line %d", n.Kind, n.Line)
	}
}

func toYAMLNode(v *document.Value) (*yaml.Node, error) {
	switch v.Kind {
	case document.KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range v.Fields {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}
			val, err := toYAMLNode(f.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, key, val)
		}
		return n, nil
	case document.KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			c, err := toYAMLNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	default:
		if v.IsStr {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str}, nil
		}
		if orig, ok := v.Raw.(yamlScalar); ok {
			clone := *orig.node
			clone.Content = nil
			return &clone, nil
		}
		n := &yaml.Node{}
		if err := n.Encode(v.Raw); err != nil {
			return nil, fmt.Errorf("encoding scalar %v: %w", v.Raw, err)
		}
		return n, nil
	}
}

func encodeYAML(doc *document.Value) ([]byte, error) {
	node, err := toYAMLNode(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ---- JSON ----

func decodeJSON(data []byte) (*document.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	doc, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("trailing content after JSON document")
	}
	return doc, nil
}

func decodeJSONValue(dec *json.Decoder) (*document.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

// decodeJSONToken 以 token 流方式解码，保持对象键的出现顺序
func decodeJSONToken(dec *json.Decoder, tok json.Token) (*document.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := document.NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key token %v", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Fields = append(obj.Fields, document.Field{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			seq := document.NewSequence()
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				seq.Items = append(seq.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return document.NewString(t), nil
	case json.Number, bool:
		return document.NewScalar(t), nil
	case nil:
		return document.NewScalar(nil), nil
	default:
		return nil, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

func encodeJSON(doc *document.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONValue(&buf, doc, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

const jsonIndent = "    "

func writeJSONValue(buf *bytes.Buffer, v *document.Value, depth int) error {
	switch v.Kind {
	case document.KindObject:
		if len(v.Fields) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, f := range v.Fields {
			buf.WriteString(strings.Repeat(jsonIndent, depth+1))
			writeJSONString(buf, f.Key)
			buf.WriteString(": ")
			if err := writeJSONValue(buf, f.Value, depth+1); err != nil {
				return err
			}
			if i < len(v.Fields)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(jsonIndent, depth))
		buf.WriteByte('}')
		return nil
	case document.KindSequence:
		if len(v.Items) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range v.Items {
			buf.WriteString(strings.Repeat(jsonIndent, depth+1))
			if err := writeJSONValue(buf, item, depth+1); err != nil {
				return err
			}
			if i < len(v.Items)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(jsonIndent, depth))
		buf.WriteByte(']')
		return nil
	default:
		return writeJSONScalar(buf, v)
	}
}

func writeJSONScalar(buf *bytes.Buffer, v *document.Value) error {
	if v.IsStr {
		writeJSONString(buf, v.Str)
		return nil
	}
	switch raw := v.Raw.(type) {
	case nil:
		buf.WriteString("null")
	case json.Number:
		buf.WriteString(raw.String())
	case bool:
		if raw {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case yamlScalar:
		// 跨格式保存时退回标量的字面值解析
		var decoded interface{}
		if err := raw.node.Decode(&decoded); err != nil {
			return fmt.Errorf("decoding scalar at line %d: %w", raw.node.Line, err)
		}
		data, err := json.Marshal(decoded)
		if err != nil {
			return err
		}
		buf.Write(data)
	default:
		data, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	return nil
}

// writeJSONString 输出 JSON 字符串字面量，不转义 HTML 字符
func writeJSONString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
}
