package font

import (
	"bytes"
	"fmt"
	"slices"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

// SubsetGlyphFont 重新读入字体，只保留给定码点对应的字形并重建 cmap
// 任何一个码点查不到字形时返回 ErrMissingCodepoint
func SubsetGlyphFont(data []byte, keep []rune) ([]byte, error) {
	info, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	outlines, ok := info.Outlines.(*cff.Outlines)
	if !ok {
		return nil, fmt.Errorf("unexpected outline format: %T", info.Outlines)
	}

	lookup, err := info.CMapTable.GetBest()
	if err != nil {
		return nil, fmt.Errorf("failed to read cmap: %w", err)
	}

	runes := slices.Clone(keep)
	slices.Sort(runes)
	runes = slices.Compact(runes)

	// 子集字形表以 .notdef 开头，其余按码点顺序排列
	gids := make([]glyph.ID, 0, len(runes)+1)
	gids = append(gids, 0)
	subtable := cmap.Format4{}
	for _, r := range runes {
		gid := lookup.Lookup(r)
		if gid == 0 {
			return nil, NewErrMissingCodepoint(r)
		}
		subtable[uint16(r)] = glyph.ID(len(gids))
		gids = append(gids, gid)
	}

	res := &sfnt.Font{}
	*res = *info
	res.Outlines = outlines.Subset(gids)
	res.CMapTable = cmap.Table{
		{PlatformID: 0, EncodingID: 3}: subtable.Encode(0),
		{PlatformID: 3, EncodingID: 1}: subtable.Encode(0),
	}

	buf := &bytes.Buffer{}
	if _, err := res.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write subset font: %w", err)
	}
	return buf.Bytes(), nil
}
