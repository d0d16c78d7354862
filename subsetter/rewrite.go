package subsetter

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/MontageSubs/ass-tools/ass"
	"github.com/MontageSubs/ass-tools/drawing"
)

// runRewrite 记录一段绘图负载的替换结果
type runRewrite struct {
	span   drawing.Span
	glyph  rune   // 0 表示该段负载为空白，整段删除
	fsText string // 注入 \fs 的参数，等于形状包围盒的像素高度
}

// groupRewrite 汇总一个绘图组的全部替换信息
type groupRewrite struct {
	group drawing.Group
	runs  []runRewrite
}

// overrideState 记录影响字形排版的覆盖标签的当前取值
// 字段保存标签参数的文本形式，恢复时按原样写回
type overrideState struct {
	fontName string
	fontSize string
	spacing  string
	bold     string
	italic   string
}

// styleResolver 按名称查找样式并换算成覆盖状态
type styleResolver func(name string) (overrideState, bool)

// styleState 把样式行换算成覆盖状态，缺失的字段取渲染器的默认样式值
func styleState(si *ass.StyleInfo) overrideState {
	st := overrideState{
		fontName: "Arial",
		fontSize: "18",
		spacing:  "0",
		bold:     "0",
		italic:   "0",
	}
	if si == nil {
		return st
	}
	if v, ok := si.Fields["Fontname"]; ok && v != "" {
		st.fontName = v
	}
	if v, ok := si.Fields["Fontsize"]; ok && isPlainNumber(v) {
		st.fontSize = v
	}
	if v, ok := si.Fields["Spacing"]; ok && isNumeric(v) {
		st.spacing = v
	}
	if v, ok := si.Fields["Bold"]; ok && v != "" {
		st.bold = flagValue(v)
	}
	if v, ok := si.Fields["Italic"]; ok && v != "" {
		st.italic = flagValue(v)
	}
	return st
}

// flagValue 把样式表的布尔字段（0 或 -1）换算成覆盖标签参数
func flagValue(v string) string {
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n != 0 {
		return "1"
	}
	return "0"
}

// isPlainNumber 判断参数是否为不带符号前缀的数值
// \fs 带符号前缀时表示相对调整，无法静态跟踪
func isPlainNumber(s string) bool {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// isNumeric 判断参数是否能按数值解析，\fsp 允许负值
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// glyphTags 生成让字形以原始包围盒尺寸渲染的覆盖标签串
// 字形的步进宽度在 \fs 等于包围盒高度时恰好等于包围盒宽度，
// 同块内先出现的用户标签被这里的取值覆盖
func glyphTags(family, fsText string) string {
	return fmt.Sprintf(`\fn%s\fs%s\fsp0\b0\i0`, family, fsText)
}

// restoreTags 生成把字体相关状态拉回 st 的覆盖标签串
func (st overrideState) restoreTags() string {
	return fmt.Sprintf(`\fn%s\fs%s\fsp%s\b%s\i%s`,
		st.fontName, st.fontSize, st.spacing, st.bold, st.italic)
}

// stateBefore 求出 pos 之前全部覆盖块依次作用后的状态
// 只统计在 pos 之前就已结束的块
func stateBefore(text string, pos int, base overrideState, resolve styleResolver) overrideState {
	st := base
	for i := 0; i < len(text); {
		if text[i] != '{' {
			i++
			continue
		}
		rel := strings.IndexByte(text[i:], '}')
		if rel < 0 {
			break
		}
		end := i + rel + 1
		if end > pos {
			break
		}
		applyBlock(&st, text[i+1:end-1], base, resolve)
		i = end
	}
	return st
}

// applyBlock 把一个覆盖块内与字体排版相关的标签合并进状态
// \t 的动画参数整体跳过，恢复标签以动画起点的状态为准
func applyBlock(st *overrideState, block string, base overrideState, resolve styleResolver) {
	for i := 0; i < len(block); {
		if block[i] != '\\' {
			i++
			continue
		}
		rest := block[i+1:]
		switch {
		case strings.HasPrefix(rest, "t("):
			i += 3 + skipParens(rest[2:])

		case strings.HasPrefix(rest, "fn"):
			v, n := tagValue(rest[2:])
			if v != "" {
				st.fontName = v
			} else {
				st.fontName = base.fontName
			}
			i += 3 + n

		case strings.HasPrefix(rest, "fsp"):
			v, n := tagValue(rest[3:])
			if isNumeric(v) {
				st.spacing = v
			} else {
				st.spacing = base.spacing
			}
			i += 4 + n

		case strings.HasPrefix(rest, "fs") && !strings.HasPrefix(rest, "fsc"):
			v, n := tagValue(rest[2:])
			if isPlainNumber(v) {
				st.fontSize = v
			} else {
				st.fontSize = base.fontSize
			}
			i += 3 + n

		case strings.HasPrefix(rest, "b") && !strings.HasPrefix(rest, "blur") &&
			!strings.HasPrefix(rest, "bord") && !strings.HasPrefix(rest, "be"):
			v, n := tagValue(rest[1:])
			if isNumeric(v) {
				st.bold = v
			} else {
				st.bold = base.bold
			}
			i += 2 + n

		case strings.HasPrefix(rest, "i") && !strings.HasPrefix(rest, "iclip"):
			v, n := tagValue(rest[1:])
			if isNumeric(v) {
				st.italic = v
			} else {
				st.italic = base.italic
			}
			i += 2 + n

		case strings.HasPrefix(rest, "r"):
			v, n := tagValue(rest[1:])
			if named, ok := resolve(v); v != "" && ok {
				*st = named
			} else {
				*st = base
			}
			i += 2 + n

		default:
			i++
		}
	}
}

// tagValue 取标签参数，到下一个反斜杠或块尾为止
func tagValue(s string) (string, int) {
	end := len(s)
	if j := strings.IndexByte(s, '\\'); j >= 0 {
		end = j
	}
	return strings.TrimSpace(s[:end]), end
}

// skipParens 返回与起始括号配对的右括号之后的偏移，未闭合时到串尾
func skipParens(s string) int {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

// visibleTextAfter 判断 from 之后是否还有覆盖块以外的非空白内容
func visibleTextAfter(text string, from int) bool {
	for i := from; i < len(text); {
		c := text[i]
		if c == '{' {
			rel := strings.IndexByte(text[i:], '}')
			if rel >= 0 {
				i += rel + 1
				continue
			}
			// 未闭合的花括号按普通文本渲染
		}
		if c != ' ' && c != '\t' {
			return true
		}
		i++
	}
	return false
}

// edit 表示对事件文本的一处替换，Start 等于 End 时为纯插入
type edit struct {
	span drawing.Span
	repl string
}

// applyEdits 按位置应用互不重叠的替换
// 同一位置上插入先于删除，保证输出顺序稳定
func applyEdits(text string, edits []edit) string {
	slices.SortFunc(edits, func(a, b edit) int {
		if c := cmp.Compare(a.span.Start, b.span.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.span.End, b.span.End)
	})
	var b strings.Builder
	pos := 0
	for _, e := range edits {
		b.WriteString(text[pos:e.span.Start])
		b.WriteString(e.repl)
		pos = e.span.End
	}
	b.WriteString(text[pos:])
	return b.String()
}

// rewriteText 把事件文本中的绘图组替换成字形引用
// 每段负载换成一个私用区字符，\p 标签删除，字形前最近的覆盖块尾部
// 注入字体标签，关闭块换成恢复原有字体状态的标签或整体删除
func rewriteText(text string, groups []groupRewrite, base overrideState, resolve styleResolver, family string) string {
	var edits []edit
	for gi := range groups {
		edits = appendGroupEdits(edits, text, &groups[gi], base, resolve, family)
	}
	return applyEdits(text, edits)
}

func appendGroupEdits(edits []edit, text string, gr *groupRewrite, base overrideState, resolve styleResolver, family string) []edit {
	g := &gr.group

	// 开启块的 \p 标签全部删除，移出绘图模式后剩余文本按普通文本处理
	for _, tag := range g.OpenTags {
		edits = append(edits, edit{span: tag})
	}

	hasGlyph := false
	for _, r := range gr.runs {
		repl := ""
		if r.glyph != 0 {
			repl = string(r.glyph)

			// 字体标签注入到字形之前最近的覆盖块尾部，
			// 块内先出现的用户标签不再影响字形
			if j := strings.LastIndexByte(text[:r.span.Start], '}'); j >= 0 {
				edits = append(edits, edit{
					span: drawing.Span{Start: j, End: j},
					repl: glyphTags(family, r.fsText),
				})
			}
			hasGlyph = true
		}
		edits = append(edits, edit{span: r.span, repl: repl})
	}

	if !g.HasCloser {
		return edits
	}

	// 之后没有可见内容时不必恢复字体状态
	restore := hasGlyph && visibleTextAfter(text, g.CloserBlock.End)
	if g.CloserBare && !restore {
		edits = append(edits, edit{span: g.CloserBlock})
		return edits
	}
	for _, tag := range g.CloserTags {
		edits = append(edits, edit{span: tag})
	}
	if restore {
		// 恢复标签放在关闭块开头，块内已有的用户标签保持优先权
		st := stateBefore(text, g.CloserBlock.Start, base, resolve)
		at := g.CloserBlock.Start + 1
		edits = append(edits, edit{
			span: drawing.Span{Start: at, End: at},
			repl: st.restoreTags(),
		})
	}
	return edits
}
