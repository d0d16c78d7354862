package ass

import (
	"errors"
	"strings"
)

// Line 表示文件中的一行以及它自身的行尾符
type Line struct {
	Num  uint   // 行号（从 1 开始，后插入的行为 0）
	Text string // 文本内容（不含行尾符）
	EOL  string // 行尾符："\n" 或 "\r\n"，文件末尾无换行时为 ""
}

type FormatInfo struct {
	Fields []string // 字段名称列表
}

type StyleInfo struct {
	line   *Line             // 原始行
	format *FormatInfo       // 格式定义
	Fields map[string]string // 字段名->值的映射
}

// LineNum 返回样式行在源文件中的行号
func (si *StyleInfo) LineNum() uint {
	return si.line.Num
}

type EventInfo struct {
	line      *Line             // 原始行
	format    *FormatInfo       // 格式定义
	Index     int               // 在事件表中的序号（从 0 开始）
	TextStart int               // Text 字段在行内的字节偏移，-1 表示该行没有 Text 字段
	Fields    map[string]string // 字段名->值的映射
}

// LineNum 返回事件行在源文件中的行号
func (ei *EventInfo) LineNum() uint {
	return ei.line.Num
}

// IsComment 判断事件是否为 Comment 行
func (ei *EventInfo) IsComment() bool {
	return startWith(ei.line.Text, "Comment:")
}

// RawText 返回 Text 字段的原始内容（不做任何修剪）
func (ei *EventInfo) RawText() string {
	if ei.TextStart < 0 {
		return ""
	}
	return ei.line.Text[ei.TextStart:]
}

// SetText 重写事件的 Text 字段，行内 Text 之前的内容保持原样
func (ei *EventInfo) SetText(text string) {
	if ei.TextStart < 0 {
		return
	}
	ei.line.Text = ei.line.Text[:ei.TextStart] + text
	ei.Fields["Text"] = strings.TrimSpace(text)
}

// FontEntry 表示 [Fonts] 模块中的一个字体条目
type FontEntry struct {
	Name  string   // fontname: 后的条目名
	Lines []string // UUEncode 之后的文本行，按顺序排列
}

type parseState struct {
	inStyleSection bool // 是否在 [V4 Styles] 模块中
	inEventSection bool // 是否在 [Events] 模块中
	hasStyle       bool // 是否已找到 [V4 Styles] 模块
	hasEvent       bool // 是否已找到 [Events] 模块
	styleIndex     int  // 已解析的样式行数
	eventIndex     int  // 已解析的事件行数
}

// 样式表结构体
type StyleTable struct {
	Format *FormatInfo // 表头格式定义
	Rows   []StyleInfo // 数据行
}

// 根据样式名称获取样式信息
func (st *StyleTable) GetStyleByName(name string) (*StyleInfo, bool) {
	for i := range st.Rows {
		if styleName, ok := st.Rows[i].Fields["Name"]; ok && styleName == name {
			return &st.Rows[i], true
		}
	}
	return nil, false
}

// 对话事件表结构体
type EventTable struct {
	Format *FormatInfo // 表头格式定义
	Rows   []EventInfo // 数据行
}

const (
	defaultStyleName = "Default" // 默认样式名称
	encodedLineWidth = 80        // [Fonts] 模块每行的编码字符数
)

var (
	ErrStyleParseFailed    = errors.New("failed to parse style")  // 未找到 [V4 Styles] 等模块
	ErrInvalidStyleFormat  = errors.New("invalid style format")   // Styles 格式解析失败
	ErrEventParseFailed    = errors.New("failed to parse event")  // 未找到 [Events] 等模块
	ErrInvalidEventFormat  = errors.New("invalid event format")   // Events 格式解析失败
	ErrMissingFormat       = errors.New("missing format line")    // 缺少格式定义行
	ErrMissingFontsSection = errors.New("no fonts section found") // 文件中没有 [Fonts] 模块或模块为空
	ErrTruncatedFontData   = errors.New("truncated font data")    // UUDecode 末组只剩一个字符，无法还原
)
