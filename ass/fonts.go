package ass

import (
	"strings"
)

// FontEntries 返回 [Fonts] 模块中的全部字体条目，按出现顺序排列
// 模块不存在或没有任何条目时返回 ErrMissingFontsSection
func (d *Document) FontEntries() ([]FontEntry, error) {
	start, end, ok := d.sectionSpan("Fonts")
	if !ok {
		return nil, ErrMissingFontsSection
	}

	entries := make([]FontEntry, 0, 1)
	var cur *FontEntry
	for _, line := range d.Lines[start+1 : end] {
		t := strings.TrimSpace(line.Text)
		switch {
		case t == "":
			// 空行不结束条目，编码数据里不会出现空白字符
			continue
		case startWith(t, "fontname:"):
			if cur != nil {
				entries = append(entries, *cur)
			}
			cur = &FontEntry{Name: strings.TrimSpace(t[len("fontname:"):])}
		default:
			// fontname: 之前的行不属于任何条目
			if cur != nil {
				cur.Lines = append(cur.Lines, line.Text)
			}
		}
	}
	if cur != nil {
		entries = append(entries, *cur)
	}

	if len(entries) == 0 {
		return nil, ErrMissingFontsSection
	}
	return entries, nil
}

// SetFontEntry 写入一个字体条目
// 已有同名条目时只替换该条目，其余条目按字节保留
// 没有 [Fonts] 模块时在 [Events] 之前新建一个，连 [Events] 都没有时追加到文件末尾
func (d *Document) SetFontEntry(entry FontEntry) {
	newLines := make([]*Line, 0, len(entry.Lines)+1)
	newLines = append(newLines, &Line{Text: "fontname: " + entry.Name, EOL: d.eol})
	for _, text := range entry.Lines {
		newLines = append(newLines, &Line{Text: text, EOL: d.eol})
	}

	if start, end, ok := d.sectionSpan("Fonts"); ok {
		if entStart, entEnd, found := d.fontEntrySpan(start, end, entry.Name); found {
			d.splice(entStart, entEnd, newLines)
			return
		}
		// 追加到模块末尾，保持模块间的空行在条目之后
		pos := end
		for pos > start+1 && strings.TrimSpace(d.Lines[pos-1].Text) == "" {
			pos--
		}
		d.splice(pos, pos, newLines)
		return
	}

	if evStart, _, ok := d.sectionSpan("Events"); ok {
		block := make([]*Line, 0, len(newLines)+3)
		if evStart > 0 && strings.TrimSpace(d.Lines[evStart-1].Text) != "" {
			block = append(block, &Line{Text: "", EOL: d.eol})
		}
		block = append(block, &Line{Text: "[Fonts]", EOL: d.eol})
		block = append(block, newLines...)
		block = append(block, &Line{Text: "", EOL: d.eol})
		d.splice(evStart, evStart, block)
		return
	}

	// 文件里连 [Events] 都没有，直接追加到末尾
	if n := len(d.Lines); n > 0 && d.Lines[n-1].EOL == "" {
		d.Lines[n-1].EOL = d.eol
	}
	block := make([]*Line, 0, len(newLines)+2)
	block = append(block, &Line{Text: "", EOL: d.eol})
	block = append(block, &Line{Text: "[Fonts]", EOL: d.eol})
	block = append(block, newLines...)
	d.splice(len(d.Lines), len(d.Lines), block)
}

// 在 [Fonts] 模块内定位名为 name 的条目
// 返回条目的行区间 [entStart, entEnd)，含 fontname: 行，不含条目后的空行
func (d *Document) fontEntrySpan(start, end int, name string) (int, int, bool) {
	entStart := -1
	entEnd := end
	for i := start + 1; i < end; i++ {
		t := strings.TrimSpace(d.Lines[i].Text)
		if !startWith(t, "fontname:") {
			continue
		}
		if entStart >= 0 {
			entEnd = i
			break
		}
		if strings.TrimSpace(t[len("fontname:"):]) == name {
			entStart = i
		}
	}
	if entStart < 0 {
		return 0, 0, false
	}
	for entEnd > entStart+1 && strings.TrimSpace(d.Lines[entEnd-1].Text) == "" {
		entEnd--
	}
	return entStart, entEnd, true
}
