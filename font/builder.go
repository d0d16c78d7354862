package font

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/postscript/type1"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/os2"

	"github.com/MontageSubs/ass-tools/drawing"
)

// 字形单元格上沿 +800、下沿 -200，总高恰好等于 1000 upem
// 单元格高度因此与注入的 \fs 像素数一致
const (
	glyphUnitsPerEm = 1000
	glyphAscent     = 800
	glyphDescent    = -200
)

// 固定时间戳，同一输入重复构建输出字节一致
var buildTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// BuildGlyphFont 把按分配顺序排列的形状构建成一个 CFF 轮廓的 OpenType 字体
// 每个形状占一个字形，码点映射由 cmap format 4 子表承载
func BuildGlyphFont(family string, assignments []drawing.Assignment) ([]byte, error) {
	if len(assignments) == 0 {
		return nil, ErrEmptyAssignments
	}

	glyphs := make([]*cff.Glyph, 0, len(assignments)+1)
	glyphs = append(glyphs, cff.NewGlyph(".notdef", glyphUnitsPerEm/2))

	subtable := cmap.Format4{}
	for i, as := range assignments {
		g, err := buildGlyph(as)
		if err != nil {
			return nil, err
		}
		glyphs = append(glyphs, g)
		subtable[uint16(as.Codepoint)] = glyph.ID(i + 1)
	}

	outlines := &cff.Outlines{
		Glyphs:   glyphs,
		Private:  []*type1.PrivateDict{{}},
		FDSelect: func(glyph.ID) int { return 0 },
		Encoding: make([]glyph.ID, 256),
	}

	cmapTable := cmap.Table{
		{PlatformID: 0, EncodingID: 3}: subtable.Encode(0),
		{PlatformID: 3, EncodingID: 1}: subtable.Encode(0),
	}

	info := &sfnt.Font{
		FamilyName:       family,
		Ascent:           glyphAscent,
		Descent:          glyphDescent,
		CapHeight:        glyphAscent,
		Width:            os2.WidthNormal,
		Weight:           os2.WeightNormal,
		IsRegular:        true,
		PermUse:          os2.PermInstall,
		UnitsPerEm:       glyphUnitsPerEm,
		FontMatrix:       matrix.Matrix{1.0 / glyphUnitsPerEm, 0, 0, 1.0 / glyphUnitsPerEm, 0, 0},
		CreationTime:     buildTime,
		ModificationTime: buildTime,
		Outlines:         outlines,
		CMapTable:        cmapTable,
	}

	buf := &bytes.Buffer{}
	if _, err := info.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write font: %w", err)
	}
	return buf.Bytes(), nil
}

// 把单个形状转成字形轮廓
// 包围盒高度缩放到整个单元格，左沿对齐 x=0，y 轴翻转（ASS 的 y 轴向下）
// 步进宽度取缩放后的包围盒宽度
func buildGlyph(as drawing.Assignment) (*cff.Glyph, error) {
	minX, minY, maxX, maxY, ok := as.Shape.BBox()
	if !ok {
		return nil, NewErrGlyphConstruction(as.Codepoint, "shape has no contours")
	}
	if maxY == minY {
		return nil, NewErrGlyphConstruction(as.Codepoint, "shape bounding box has zero height")
	}

	scale := glyphUnitsPerEm / (maxY - minY)
	width := math.Round((maxX - minX) * scale)

	g := cff.NewGlyph(glyphName(as.Codepoint), width)
	for _, contour := range as.Shape.Contours() {
		x, y := glyphPoint(contour.Start, minX, minY, scale)
		g.MoveTo(x, y)
		for _, seg := range contour.Segments {
			switch seg.Kind {
			case drawing.CmdLineTo:
				x, y := glyphPoint(seg.P3, minX, minY, scale)
				g.LineTo(x, y)
			case drawing.CmdCubicTo:
				x1, y1 := glyphPoint(seg.P1, minX, minY, scale)
				x2, y2 := glyphPoint(seg.P2, minX, minY, scale)
				x3, y3 := glyphPoint(seg.P3, minX, minY, scale)
				g.CurveTo(x1, y1, x2, y2, x3, y3)
			}
		}
		// CFF 轮廓自动闭合回 MoveTo 起点
	}
	return g, nil
}

func glyphPoint(p drawing.PointF, minX, minY, scale float64) (float64, float64) {
	return (p.X - minX) * scale, glyphAscent - (p.Y-minY)*scale
}

func glyphName(cp rune) string {
	return fmt.Sprintf("uni%04X", cp)
}
