package subsetter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MontageSubs/ass-tools/ass"
	"github.com/MontageSubs/ass-tools/drawing"
)

func TestStyleStateDefaults(t *testing.T) {
	want := overrideState{
		fontName: "Arial",
		fontSize: "18",
		spacing:  "0",
		bold:     "0",
		italic:   "0",
	}
	require.Equal(t, want, styleState(nil))
}

func TestStyleStateFields(t *testing.T) {
	st := styleState(&ass.StyleInfo{Fields: map[string]string{
		"Fontname": "Tahoma",
		"Fontsize": "32",
		"Spacing":  "1.5",
		"Bold":     "-1",
		"Italic":   "0",
	}})
	want := overrideState{
		fontName: "Tahoma",
		fontSize: "32",
		spacing:  "1.5",
		bold:     "1",
		italic:   "0",
	}
	require.Equal(t, want, st)
	require.Equal(t, `\fnTahoma\fs32\fsp1.5\b1\i0`, st.restoreTags())
}

func TestStateBefore(t *testing.T) {
	base := overrideState{fontName: "Arial", fontSize: "20", spacing: "0", bold: "0", italic: "0"}
	sign := overrideState{fontName: "Tahoma", fontSize: "32", spacing: "1", bold: "1", italic: "0"}
	resolve := func(name string) (overrideState, bool) {
		if name == "Sign" {
			return sign, true
		}
		return overrideState{}, false
	}

	cases := []struct {
		name string
		text string
		want overrideState
	}{
		{
			name: "没有覆盖块",
			text: `hello{\p1}`,
			want: base,
		},
		{
			name: "覆盖字号和斜体",
			text: `{\fs40\i1}x{\p1}`,
			want: overrideState{fontName: "Arial", fontSize: "40", spacing: "0", bold: "0", italic: "1"},
		},
		{
			name: "空参数回退到样式值",
			text: `{\fs40}a{\fs\b1}b{\p1}`,
			want: overrideState{fontName: "Arial", fontSize: "20", spacing: "0", bold: "1", italic: "0"},
		},
		{
			name: "相对字号无法跟踪时回退",
			text: `{\fs+6}x{\p1}`,
			want: base,
		},
		{
			name: "r重置为行样式",
			text: `{\fs40\b1}a{\r}b{\p1}`,
			want: base,
		},
		{
			name: "r切换到具名样式",
			text: `{\rSign}a{\p1}`,
			want: sign,
		},
		{
			name: "未知样式名回退",
			text: `{\rNoSuch}a{\p1}`,
			want: base,
		},
		{
			name: "动画参数整体跳过",
			text: `{\t(0,500,\fs60)}a{\p1}`,
			want: base,
		},
		{
			name: "前缀相同的标签不误匹配",
			text: `{\fscx50\fsp2\blur3\bord1\be1\iclip(0,0,1,1)}x{\p1}`,
			want: overrideState{fontName: "Arial", fontSize: "20", spacing: "2", bold: "0", italic: "0"},
		},
		{
			name: "字体名保留内部空格",
			text: `{\fnMS PGothic}x{\p1}`,
			want: overrideState{fontName: "MS PGothic", fontSize: "20", spacing: "0", bold: "0", italic: "0"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pos := strings.Index(c.text, `\p1`)
			require.GreaterOrEqual(t, pos, 0)
			require.Equal(t, c.want, stateBefore(c.text, pos, base, resolve))
		})
	}
}

func TestVisibleTextAfter(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"行尾", `abc{\p0}`, false},
		{"只剩空白", `abc{\p0}  ` + "\t", false},
		{"覆盖块不算内容", `abc{\p0}{\fad(0,200)}`, false},
		{"覆盖块之后有文本", `abc{\p0}{\fad(0,200)}x`, true},
		{"普通文本", `abc{\p0}hi`, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			from := strings.Index(c.text, "}") + 1
			require.Equal(t, c.want, visibleTextAfter(c.text, from))
		})
	}
}

func TestApplyEdits(t *testing.T) {
	// 同一位置的插入排在删除之前
	text := `{\p0}tail`
	edits := []edit{
		{span: drawing.Span{Start: 1, End: 4}},
		{span: drawing.Span{Start: 1, End: 1}, repl: `\fs20`},
	}
	require.Equal(t, `{\fs20}tail`, applyEdits(text, edits))
}

func TestRewriteTextSingleDrawing(t *testing.T) {
	base := overrideState{fontName: "Arial", fontSize: "20", spacing: "0", bold: "0", italic: "0"}
	resolve := func(string) (overrideState, bool) { return overrideState{}, false }

	text := `{\p1}m 0 0 l 100 0 l 100 100 l 0 100{\p0}`
	groups := drawing.ExtractGroups(text)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Runs, 1)

	gr := groupRewrite{
		group: groups[0],
		runs:  []runRewrite{{span: groups[0].Runs[0], glyph: 0xE000, fsText: "100"}},
	}
	got := rewriteText(text, []groupRewrite{gr}, base, resolve, "ASSDrawSubset")
	require.Equal(t, "{\\fnASSDrawSubset\\fs100\\fsp0\\b0\\i0}\uE000", got)
}

func TestFormatSize(t *testing.T) {
	require.Equal(t, "100", formatSize(100))
	require.Equal(t, "12.5", formatSize(12.5))
	require.Equal(t, "0.125", formatSize(0.125))
}
