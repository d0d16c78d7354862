package ass_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MontageSubs/ass-tools/ass"
)

var fontsASS = strings.Join([]string{
	"[Script Info]",
	"Title: Demo",
	"",
	"[Fonts]",
	"fontname: foo_0.ttf",
	"!!%#!Q",
	"fontname: bar_0.ttf",
	"````",
	"",
	"[Events]",
	"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text",
	"Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,文本",
	"",
}, "\n")

func TestFontEntries(t *testing.T) {
	doc, err := ass.NewDocument(strings.NewReader(fontsASS))
	require.NoError(t, err)

	entries, err := doc.FontEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "foo_0.ttf", entries[0].Name)
	require.Equal(t, []string{"!!%#!Q"}, entries[0].Lines)
	require.Equal(t, "bar_0.ttf", entries[1].Name)
	require.Equal(t, []string{"````"}, entries[1].Lines)

	// 条目数据可以直接还原
	data, err := ass.UUDecode(entries[0].Lines)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2, 3}, data)
}

func TestFontEntriesMissing(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "没有Fonts模块",
			input: "[Script Info]\nTitle: Demo\n",
		},
		{
			name:  "Fonts模块为空",
			input: "[Script Info]\nTitle: Demo\n\n[Fonts]\n\n[Events]\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := ass.NewDocument(strings.NewReader(tc.input))
			require.NoError(t, err)
			_, err = doc.FontEntries()
			require.ErrorIs(t, err, ass.ErrMissingFontsSection)
		})
	}
}

func TestSetFontEntryCreate(t *testing.T) {
	doc, err := ass.NewDocument(strings.NewReader(sampleASS))
	require.NoError(t, err)

	doc.SetFontEntry(ass.FontEntry{
		Name:  "ASSDrawSubset_0.ttf",
		Lines: []string{"!!%#!Q"},
	})

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	out := buf.String()

	// 新模块插在 [Events] 之前
	require.Contains(t, out, "[Fonts]\r\nfontname: ASSDrawSubset_0.ttf\r\n!!%#!Q\r\n\r\n[Events]")

	entries, err := doc.FontEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "ASSDrawSubset_0.ttf", entries[0].Name)
}

func TestSetFontEntryReplace(t *testing.T) {
	doc, err := ass.NewDocument(strings.NewReader(fontsASS))
	require.NoError(t, err)

	doc.SetFontEntry(ass.FontEntry{
		Name:  "foo_0.ttf",
		Lines: []string{"````", "!!%#"},
	})

	entries, err := doc.FontEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "foo_0.ttf", entries[0].Name)
	require.Equal(t, []string{"````", "!!%#"}, entries[0].Lines)

	// 其余条目原样保留
	require.Equal(t, "bar_0.ttf", entries[1].Name)
	require.Equal(t, []string{"````"}, entries[1].Lines)

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	require.Contains(t, buf.String(), "fontname: foo_0.ttf\n````\n!!%#\nfontname: bar_0.ttf")
}

func TestSetFontEntryAppendToSection(t *testing.T) {
	doc, err := ass.NewDocument(strings.NewReader(fontsASS))
	require.NoError(t, err)

	doc.SetFontEntry(ass.FontEntry{
		Name:  "baz_0.ttf",
		Lines: []string{"!!"},
	})

	entries, err := doc.FontEntries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "baz_0.ttf", entries[2].Name)

	// 模块之间的空行保持在条目之后
	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	require.Contains(t, buf.String(), "fontname: baz_0.ttf\n!!\n\n[Events]")
}

func TestSetFontEntryNoEvents(t *testing.T) {
	doc, err := ass.NewDocument(strings.NewReader("[Script Info]\nTitle: Demo"))
	require.NoError(t, err)

	doc.SetFontEntry(ass.FontEntry{
		Name:  "ASSDrawSubset_0.ttf",
		Lines: []string{"!!%#!Q"},
	})

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	require.Equal(t, "[Script Info]\nTitle: Demo\n\n[Fonts]\nfontname: ASSDrawSubset_0.ttf\n!!%#!Q\n", buf.String())
}
