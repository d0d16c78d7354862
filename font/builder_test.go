package font

import (
	"testing"

	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/MontageSubs/ass-tools/drawing"
)

const (
	squarePath   = "m 0 0 l 100 0 l 100 100 l 0 100"
	trianglePath = "m 0 50 l 80 0 l 80 100"
	diamondPath  = "m 50 0 l 100 50 l 50 100 l 0 50"
	curvePath    = "m 0 0 b 0 100 100 100 100 0"
)

// 按给定负载顺序构造分配表，码点从 U+E000 起
func mustAssignments(t *testing.T, payloads ...string) []drawing.Assignment {
	t.Helper()
	alloc, err := drawing.NewAllocator(0xE000, 0xF8FF)
	require.NoError(t, err)
	for _, p := range payloads {
		cmds, err := drawing.ParsePath(p, 1)
		require.NoError(t, err)
		_, _, err = alloc.Assign(drawing.NewShape(cmds))
		require.NoError(t, err)
	}
	return alloc.Assignments()
}

func TestBuildGlyphFont(t *testing.T) {
	assignments := mustAssignments(t, squarePath, trianglePath, curvePath)
	data, err := BuildGlyphFont("ASSDrawSubset", assignments)
	require.NoError(t, err)

	f, err := sfnt.Parse(data)
	require.NoError(t, err)
	require.Equal(t, 4, f.NumGlyphs())
	require.EqualValues(t, 1000, f.UnitsPerEm())

	var buf sfnt.Buffer
	family, err := f.Name(&buf, sfnt.NameIDFamily)
	require.NoError(t, err)
	require.Equal(t, "ASSDrawSubset", family)

	for i, cp := range []rune{0xE000, 0xE001, 0xE002} {
		gi, err := f.GlyphIndex(&buf, cp)
		require.NoError(t, err)
		require.EqualValues(t, i+1, gi, "U+%04X", cp)
	}
	gi, err := f.GlyphIndex(&buf, 0xE003)
	require.NoError(t, err)
	require.EqualValues(t, 0, gi, "未分配的码点不应有字形")
}

func TestBuildGlyphFontAdvance(t *testing.T) {
	assignments := mustAssignments(t, squarePath, trianglePath)
	data, err := BuildGlyphFont("ASSDrawSubset", assignments)
	require.NoError(t, err)

	f, err := sfnt.Parse(data)
	require.NoError(t, err)

	// ppem 与 upem 相等时步进宽度就是设计单位值
	// 正方形 100x100 放大到全单元格后宽 1000，三角形 80x100 对应 800
	var buf sfnt.Buffer
	adv, err := f.GlyphAdvance(&buf, 1, fixed.I(1000), xfont.HintingNone)
	require.NoError(t, err)
	require.Equal(t, fixed.I(1000), adv)

	adv, err = f.GlyphAdvance(&buf, 2, fixed.I(1000), xfont.HintingNone)
	require.NoError(t, err)
	require.Equal(t, fixed.I(800), adv)
}

func TestBuildGlyphFontDeterministic(t *testing.T) {
	first, err := BuildGlyphFont("ASSDrawSubset", mustAssignments(t, squarePath, diamondPath))
	require.NoError(t, err)
	second, err := BuildGlyphFont("ASSDrawSubset", mustAssignments(t, squarePath, diamondPath))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBuildGlyphFontErrors(t *testing.T) {
	_, err := BuildGlyphFont("ASSDrawSubset", nil)
	require.ErrorIs(t, err, ErrEmptyAssignments)

	testCases := []struct {
		name    string
		payload string
	}{
		{"没有轮廓", "m 0 0"},
		{"包围盒零高度", "m 0 0 l 100 0"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildGlyphFont("ASSDrawSubset", mustAssignments(t, tc.payload))
			var gcErr *ErrGlyphConstruction
			require.ErrorAs(t, err, &gcErr)
		})
	}
}
