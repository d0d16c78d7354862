package ass

import (
	"fmt"
	"io"
	"strings"
)

// Document 持有一个 ASS 文件的全部行，保留原始行尾符和 BOM
// 未被改写的行在 Write 时按字节原样输出
type Document struct {
	Lines      []*Line     // 全部行，保持原始顺序
	BOM        bool        // 输入是否带 BOM
	StyleTable *StyleTable // 样式表
	EventTable *EventTable // 事件表

	eol string // 文件占多数的行尾符，新插入的行使用它
}

func NewDocument(reader io.Reader) (*Document, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to new document: %w", err)
	}

	text, bom, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to new document: %w", err)
	}

	d := &Document{
		Lines:      make([]*Line, 0, 200),
		BOM:        bom,
		StyleTable: &StyleTable{Rows: make([]StyleInfo, 0)},
		EventTable: &EventTable{Rows: make([]EventInfo, 0)},
		eol:        "\n",
	}

	// 手工切分行并保留每行自己的行尾符，bufio.Scanner 会丢掉 \r\n 与 \n 的区别
	var lineNum uint = 0
	crlf, lf := 0, 0
	for pos := 0; pos < len(text); {
		lineNum++
		rel := strings.IndexByte(text[pos:], '\n')
		if rel < 0 {
			// 文件末尾没有换行
			d.Lines = append(d.Lines, &Line{Num: lineNum, Text: text[pos:]})
			break
		}
		end := pos + rel
		eol := "\n"
		if end > pos && text[end-1] == '\r' {
			end--
			eol = "\r\n"
			crlf++
		} else {
			lf++
		}
		d.Lines = append(d.Lines, &Line{Num: lineNum, Text: text[pos:end], EOL: eol})
		pos += rel + 1
	}
	if crlf > lf {
		d.eol = "\r\n"
	}
	return d, nil
}

// Parse 解析样式表和事件表
// 文件缺少样式或事件模块时返回错误，重复调用时按当前行重新解析
func (d *Document) Parse() error {
	var s parseState
	var err error

	d.StyleTable = &StyleTable{Rows: make([]StyleInfo, 0)}
	d.EventTable = &EventTable{Rows: make([]EventInfo, 0)}

	for i := range d.Lines {
		s, err = d.parseLine(i, s)
		if err != nil {
			return fmt.Errorf("failed to parse ass content at line %d: %w", d.Lines[i].Num, err)
		}
	}

	// 验证必要区块
	if !s.hasStyle {
		return ErrStyleParseFailed
	}
	if !s.hasEvent {
		return ErrEventParseFailed
	}
	return nil
}

func (d *Document) parseLine(i int, s parseState) (parseState, error) {
	line := d.Lines[i]
	// 检查区块开始
	switch {
	case startWith(line.Text, "[V4+ Styles]"), startWith(line.Text, "[V4 Styles]"):
		s.inStyleSection = true
		s.inEventSection = false
		d.StyleTable.Format = nil // 重置格式定义
		return s, nil

	case startWith(line.Text, "[Events]"):
		s.inEventSection = true
		s.inStyleSection = false
		d.EventTable.Format = nil // 重置格式定义
		return s, nil
	case startWith(line.Text, "["):
		s.inStyleSection = false
		s.inEventSection = false
	}

	// 根据当前状态处理行
	switch {
	case s.inStyleSection && startWith(line.Text, "Format:"):
		// 解析样式格式定义
		format, err := ParseFormat(line.Text)
		if err != nil {
			return s, err
		}
		d.StyleTable.Format = format

	case s.inStyleSection && startWith(line.Text, "Style:"):
		if d.StyleTable.Format == nil {
			return s, ErrMissingFormat
		}
		si, err := parseStyleLine(line, d.StyleTable.Format)
		if err != nil {
			return s, err
		}
		d.StyleTable.Rows = append(d.StyleTable.Rows, *si)
		s.styleIndex++
		s.hasStyle = true

	case s.inEventSection && startWith(line.Text, "Format:"):
		// 解析事件格式定义
		format, err := ParseFormat(line.Text)
		if err != nil {
			return s, err
		}
		d.EventTable.Format = format

	case s.inEventSection && (startWith(line.Text, "Dialogue:") || startWith(line.Text, "Comment:")):
		if d.EventTable.Format == nil {
			return s, ErrMissingFormat
		}
		ei, err := parseEventLine(line, d.EventTable.Format, s.eventIndex)
		if err != nil {
			return s, err
		}
		d.EventTable.Rows = append(d.EventTable.Rows, *ei)
		s.eventIndex++
		s.hasEvent = true
	}
	return s, nil
}

// 获取事件对应的样式行
// 事件的 Style 字段为空或找不到时回退到 Default 样式
func (d *Document) StyleForEvent(ei *EventInfo) (*StyleInfo, bool) {
	styleName := defaultStyleName
	if style, ok := ei.Fields["Style"]; ok && style != "" {
		styleName = style
	}
	if si, ok := d.StyleTable.GetStyleByName(styleName); ok {
		return si, true
	}
	return d.StyleTable.GetStyleByName(defaultStyleName)
}

// Write 按字节输出整个文件
// 未被修改过的输入在这里原样还原，包括 BOM 和每行的行尾符
func (d *Document) Write(writer io.Writer) error {
	var err error

	if d.BOM {
		if _, err = writer.Write(utf8BOM); err != nil {
			goto fail
		}
	}
	for _, line := range d.Lines {
		if _, err = io.WriteString(writer, line.Text); err != nil {
			goto fail
		}
		if line.EOL != "" {
			if _, err = io.WriteString(writer, line.EOL); err != nil {
				goto fail
			}
		}
	}
	return nil

fail:
	return fmt.Errorf("failed to write ass document: %w", err)
}

// sectionSpan 查找名为 name 的模块
// 返回表头行下标和模块结束下标（不含），模块在下一个 [ 开头的行处结束
func (d *Document) sectionSpan(name string) (start int, end int, ok bool) {
	want := "[" + strings.ToLower(name) + "]"
	header := -1
	for i, line := range d.Lines {
		t := strings.TrimSpace(strings.ToLower(line.Text))
		if !strings.HasPrefix(t, "[") {
			continue
		}
		if header >= 0 {
			return header, i, true
		}
		if t == want {
			header = i
		}
	}
	if header >= 0 {
		return header, len(d.Lines), true
	}
	return 0, 0, false
}

// 用 repl 替换 [start, end) 区间的行，区间外已有行的指针保持有效
func (d *Document) splice(start, end int, repl []*Line) {
	out := make([]*Line, 0, len(d.Lines)-(end-start)+len(repl))
	out = append(out, d.Lines[:start]...)
	out = append(out, repl...)
	out = append(out, d.Lines[end:]...)
	d.Lines = out
}
