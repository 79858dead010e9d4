package document

import "sort"

// DefaultMaxChars 单个批次的默认字符预算
const DefaultMaxChars = 1800

// Batch 一次外部翻译调用要处理的一组文本条目
type Batch struct {
	Entries map[string]string
	Chars   int
}

// Keys 返回排序后的路径键
func (b Batch) Keys() []string {
	keys := make([]string, 0, len(b.Entries))
	for k := range b.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Chunk 将文本映射按字符预算贪心切分为批次。
// 条目按路径键排序后装箱，同一输入总是产生相同的批次划分。
// 单条超出预算的条目独占一个批次，批次从不在字符层面拆分条目。
func Chunk(texts map[string]string, maxChars int) []Batch {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	keys := make([]string, 0, len(texts))
	for k := range texts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var batches []Batch
	current := Batch{Entries: make(map[string]string)}

	flush := func() {
		if len(current.Entries) > 0 {
			batches = append(batches, current)
			current = Batch{Entries: make(map[string]string)}
		}
	}

	for _, key := range keys {
		text := texts[key]
		size := len(text)

		if size > maxChars {
			flush()
			batches = append(batches, Batch{
				Entries: map[string]string{key: text},
				Chars:   size,
			})
			continue
		}

		if current.Chars+size > maxChars {
			flush()
		}
		current.Entries[key] = text
		current.Chars += size
	}

	flush()
	return batches
}
