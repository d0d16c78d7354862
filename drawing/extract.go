package drawing

import (
	"strconv"
	"strings"
)

// Span 是事件文本中的一个字节区间，Start 含，End 不含
type Span struct {
	Start int
	End   int
}

// Group 表示一次 \pN 开启后到关闭为止的整个绘图区段
// 所有区间都是相对事件 Text 字段的字节偏移
type Group struct {
	Exponent int    // \pN 的 N
	OpenTags []Span // 开启块中全部 \p 标签，改写时全部删除
	Runs     []Span // 块与块之间的负载文本段，按出现顺序排列

	// 关闭信息只在区段由 \p0 块结束时存在
	// 区段延伸到行尾、或被新的 \pN 块顶替时 HasCloser 为 false
	HasCloser   bool
	CloserBlock Span   // 关闭块整体区间，含两侧花括号
	CloserTags  []Span // 关闭块中全部 \p 标签
	CloserBare  bool   // 关闭块中除 \p 标签外没有别的内容
}

// HasPayload 判断区段是否有非空白的负载
// 全空白的区段画不出任何东西，改写时原样跳过
func (g *Group) HasPayload(text string) bool {
	for _, r := range g.Runs {
		if strings.TrimSpace(text[r.Start:r.End]) != "" {
			return true
		}
	}
	return false
}

// ExtractGroups 扫描事件文本，按出现顺序返回全部有负载的绘图区段
// 花括号块内最后一个 \p 标签决定绘图状态，不会误匹配 \pos、\pbo 这类前缀相同的标签
func ExtractGroups(text string) []Group {
	var groups []Group
	var open *Group

	closeOpen := func() {
		if open != nil {
			groups = append(groups, *open)
			open = nil
		}
	}

	pos := 0
	segStart := 0
	for pos < len(text) {
		if text[pos] != '{' {
			pos++
			continue
		}
		rel := strings.IndexByte(text[pos:], '}')
		if rel < 0 {
			// 未闭合的花括号当作普通文本
			break
		}
		blockStart, blockEnd := pos, pos+rel+1

		// 块之前的文本段属于当前打开的区段
		if open != nil && blockStart > segStart {
			open.Runs = append(open.Runs, Span{Start: segStart, End: blockStart})
		}

		tags, value := scanDrawingTags(text[blockStart:blockEnd])
		if len(tags) > 0 {
			shifted := shiftSpans(tags, blockStart)
			if open != nil && value == 0 {
				open.HasCloser = true
				open.CloserBlock = Span{Start: blockStart, End: blockEnd}
				open.CloserTags = shifted
				open.CloserBare = isBareBlock(text[blockStart:blockEnd], tags)
			}
			closeOpen()
			if value >= 1 {
				open = &Group{Exponent: value, OpenTags: shifted}
			}
		}

		pos = blockEnd
		segStart = blockEnd
	}
	if open != nil && len(text) > segStart {
		open.Runs = append(open.Runs, Span{Start: segStart, End: len(text)})
	}
	closeOpen()

	// 丢掉没有负载的区段
	out := groups[:0]
	for _, g := range groups {
		if g.HasPayload(text) {
			out = append(out, g)
		}
	}
	return out
}

// 找出块内全部 \p 绘图标签，返回各标签区间和最后一个标签的值
// \p 后面必须紧跟数字，保证不吞掉 \pos 和 \pbo
func scanDrawingTags(block string) ([]Span, int) {
	var tags []Span
	value := 0
	for i := 0; i+2 < len(block); i++ {
		if block[i] != '\\' || block[i+1] != 'p' {
			continue
		}
		j := i + 2
		for j < len(block) && block[j] >= '0' && block[j] <= '9' {
			j++
		}
		if j == i+2 {
			continue
		}
		v, err := strconv.Atoi(block[i+2 : j])
		if err != nil {
			continue
		}
		tags = append(tags, Span{Start: i, End: j})
		value = v
		i = j - 1
	}
	return tags, value
}

// 判断块里除 \p 标签外是否只剩空白
func isBareBlock(block string, tags []Span) bool {
	covered := make([]bool, len(block))
	for _, t := range tags {
		for i := t.Start; i < t.End; i++ {
			covered[i] = true
		}
	}
	for i := 1; i < len(block)-1; i++ {
		if covered[i] {
			continue
		}
		switch block[i] {
		case ' ', '\t':
		default:
			return false
		}
	}
	return true
}

func shiftSpans(spans []Span, offset int) []Span {
	out := make([]Span, len(spans))
	for i, s := range spans {
		out[i] = Span{Start: s.Start + offset, End: s.End + offset}
	}
	return out
}
