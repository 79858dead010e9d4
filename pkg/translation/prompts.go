package translation

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/nerdneilsfield/go-doc-translator/pkg/document"
)

// batchPromptTemplate 单次批量翻译的固定指令。
// 键永远不翻译；标识符/URL/占位符/版本号原样保留；
// 响应必须是裸 JSON 对象，不带任何解释性文字。
const batchPromptTemplate = `You are an expert translation service. Translate the JSON values in the following JSON object into %s.
IMPORTANT RULES:
1. ONLY translate the string values. DO NOT translate the keys.
2. If a string value appears to be an identifier, a path, a placeholder (like '%%s', '{{variable}}'), a version number (e.g., '1.0.0'), a URL, an email address, or a sequence of random-looking characters, KEEP IT UNCHANGED.
3. Maintain the original JSON structure EXACTLY.
4. Ensure the output is a valid JSON object, starting with ` + "`{`" + ` and ending with ` + "`}`" + `.
5. Do not add any explanatory text, comments, or markdown formatting (like ` + "```json" + `) around the JSON output. The response MUST be only the translated JSON object itself.

Input JSON to translate:
%s`

// BuildPrompt 构造一个批次的完整翻译指令。
// map 序列化时键按字典序输出，同一批次总是得到相同的提示词。
func BuildPrompt(batch document.Batch, targetLanguage string) (string, error) {
	payload, err := json.MarshalIndent(batch.Entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling batch payload: %w", err)
	}
	return fmt.Sprintf(batchPromptTemplate, targetLanguage, string(payload)), nil
}

// LanguageName 把语言代码转换为英文显示名，供提示词使用。
// 无法解析的代码原样返回。
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return name
}
