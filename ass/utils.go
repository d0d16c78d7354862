package ass

import (
	"strings"
)

// 判断字符串是否有前缀（不区分大小写）
func startWith(raw string, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(raw), strings.ToLower(prefix))
}

// 解析单行样式
// 不会修改 line 的内容
func parseStyleLine(line *Line, format *FormatInfo) (*StyleInfo, error) {
	// Format: Name, Fontname, Fontsize, PrimaryColour, ...
	fields, err := ParseDataLine(line.Text, format)
	if err != nil {
		return nil, ErrInvalidStyleFormat
	}

	si := &StyleInfo{
		line:   line,
		format: format,
		Fields: fields,
	}
	return si, nil
}

// 解析单行事件
// 不会修改 line 的内容
func parseEventLine(line *Line, format *FormatInfo, index int) (*EventInfo, error) {
	fields, err := ParseDataLine(line.Text, format)
	if err != nil {
		return nil, ErrInvalidEventFormat
	}

	ei := &EventInfo{
		line:      line,
		format:    format,
		Index:     index,
		TextStart: -1,
		Fields:    fields,
	}

	// Text 是格式中的最后一个字段时，记录它在原始行中的字节偏移，
	// 改写时保留行内 Text 之前的全部内容
	if n := len(format.Fields); n > 0 && format.Fields[n-1] == "Text" {
		ei.TextStart = textFieldOffset(line.Text, n)
	}
	return ei, nil
}

// 计算最后一个字段在原始行中的起始偏移
// 即冒号之后第 fieldCount-1 个逗号的下一个字节
func textFieldOffset(raw string, fieldCount int) int {
	pos := strings.IndexByte(raw, ':')
	if pos < 0 {
		return -1
	}
	pos++
	for i := 0; i < fieldCount-1; i++ {
		rel := strings.IndexByte(raw[pos:], ',')
		if rel < 0 {
			return -1
		}
		pos += rel + 1
	}
	return pos
}

// 解析格式定义行（Format:）
func ParseFormat(line string) (*FormatInfo, error) {
	// Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return nil, ErrInvalidStyleFormat
	}

	fieldNames := strings.Split(strings.TrimSpace(parts[1]), ",")

	// 清理字段名称
	for i := range fieldNames {
		fieldNames[i] = strings.TrimSpace(fieldNames[i])
	}

	return &FormatInfo{Fields: fieldNames}, nil
}

// 解析数据行（Style: 或 Dialogue:）并返回字段映射
func ParseDataLine(line string, format *FormatInfo) (map[string]string, error) {
	// Style: Default,方正准圆_GBK,48,&H00FFFFFF,&HF0000000,&H00665806,&H0058281B,0,0,0,0,100,100,1,0,1,2,0,2,30,30,10,1
	// Dialogue: 1,0:56:02.80,0:56:08.34,OP-JP,,0,0,10,,{\an2\c&HFFFFFF&\bord4\blur3\fs50\fax-0.1\3c&HA0350D&}突然降る夕立　あぁ傘もないや嫌

	// 先按冒号分割
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return nil, ErrInvalidStyleFormat
	}

	fieldCount := len(format.Fields)
	values := strings.SplitN(strings.TrimSpace(parts[1]), ",", fieldCount)

	result := make(map[string]string)

	// 将分割的值与对应的字段名进行映射
	for i := 0; i < fieldCount && i < len(values); i++ {
		result[format.Fields[i]] = strings.TrimSpace(values[i])
	}

	return result, nil
}

// 清除ASS字幕中的特效标记，返回纯文本
func CleanEffects(text string) string {
	if text == "" {
		return ""
	}

	runes := []rune(text)
	result := make([]rune, 0, len(runes))

	i := 0
	for i < len(runes) {
		// 处理转义字符
		if i < len(runes)-1 && runes[i] == '\\' {
			switch runes[i+1] {
			case 'h': // 硬空格，转换为普通空格
				result = append(result, ' ')
				i += 2
			case 'n', 'N': // 换行符，转换为换行
				result = append(result, '\n')
				i += 2
			case '{', '}': // 转义的花括号，保留
				result = append(result, runes[i+1])
				i += 2
			default:
				// 其他转义字符直接跳过
				i += 2
			}
			continue
		}

		// 处理特效标记 {...}
		if runes[i] == '{' {
			// 使用嵌套计数处理花括号
			endIdx := i + 1
			depth := 1
			for endIdx < len(runes) && depth > 0 {
				switch runes[endIdx] {
				case '{':
					depth++
				case '}':
					depth--
				}
				endIdx++
			}
			if depth == 0 { // 找到了匹配的花括号，跳过整个特效块
				i = endIdx
			} else { // 没有找到匹配的花括号，跳过到第一个可能的实际文本
				j := i + 1
				for j < len(runes) { // 查找第一个中文字符或字母作为实际文本的开始
					if runes[j] >= 0x4e00 && runes[j] <= 0x9fff { // 中文字符
						break
					}
					j++
				}
				i = j
			}
			continue
		}

		// 普通字符，直接添加
		result = append(result, runes[i])
		i++
	}

	return strings.TrimSpace(string(result))
}
