package font

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/sfnt"
)

func TestSubsetGlyphFontKeepAll(t *testing.T) {
	data, err := BuildGlyphFont("ASSDrawSubset", mustAssignments(t, squarePath, trianglePath, diamondPath))
	require.NoError(t, err)

	subset, err := SubsetGlyphFont(data, []rune{0xE000, 0xE001, 0xE002})
	require.NoError(t, err)

	f, err := sfnt.Parse(subset)
	require.NoError(t, err)
	require.Equal(t, 4, f.NumGlyphs())

	var buf sfnt.Buffer
	for i, cp := range []rune{0xE000, 0xE001, 0xE002} {
		gi, err := f.GlyphIndex(&buf, cp)
		require.NoError(t, err)
		require.EqualValues(t, i+1, gi, "U+%04X", cp)
	}
}

func TestSubsetGlyphFontDropGlyphs(t *testing.T) {
	data, err := BuildGlyphFont("ASSDrawSubset", mustAssignments(t, squarePath, trianglePath, diamondPath))
	require.NoError(t, err)

	subset, err := SubsetGlyphFont(data, []rune{0xE001})
	require.NoError(t, err)
	require.Less(t, len(subset), len(data))

	f, err := sfnt.Parse(subset)
	require.NoError(t, err)
	require.Equal(t, 2, f.NumGlyphs())

	var buf sfnt.Buffer
	gi, err := f.GlyphIndex(&buf, 0xE001)
	require.NoError(t, err)
	require.EqualValues(t, 1, gi)

	gi, err = f.GlyphIndex(&buf, 0xE000)
	require.NoError(t, err)
	require.EqualValues(t, 0, gi, "被剔除的码点不应再有字形")
}

func TestSubsetGlyphFontDuplicateKeep(t *testing.T) {
	data, err := BuildGlyphFont("ASSDrawSubset", mustAssignments(t, squarePath))
	require.NoError(t, err)

	subset, err := SubsetGlyphFont(data, []rune{0xE000, 0xE000, 0xE000})
	require.NoError(t, err)

	f, err := sfnt.Parse(subset)
	require.NoError(t, err)
	require.Equal(t, 2, f.NumGlyphs())
}

func TestSubsetGlyphFontMissingCodepoint(t *testing.T) {
	data, err := BuildGlyphFont("ASSDrawSubset", mustAssignments(t, squarePath))
	require.NoError(t, err)

	_, err = SubsetGlyphFont(data, []rune{0xE000, 0xE009})
	var missErr *ErrMissingCodepoint
	require.ErrorAs(t, err, &missErr)
}

func TestSubsetGlyphFontBadData(t *testing.T) {
	_, err := SubsetGlyphFont([]byte("not a font"), []rune{0xE000})
	require.Error(t, err)
}
