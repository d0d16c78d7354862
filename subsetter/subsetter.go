package subsetter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MontageSubs/ass-tools/ass"
	"github.com/MontageSubs/ass-tools/drawing"
	"github.com/MontageSubs/ass-tools/font"
)

// Subsetter 把文档中的矢量绘图改写为内嵌子集字体的字形引用
// 相同形状在全文档内只分配一个码点，未改写的行保持字节原样
type Subsetter struct {
	cfg *config
}

func New(opts ...Option) *Subsetter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Subsetter{cfg: cfg}
}

// eventRewrite 暂存一个事件的全部改写信息，码点分配完成后统一落盘
type eventRewrite struct {
	event  *ass.EventInfo
	groups []groupRewrite
}

// Process 解析文档，收集全部绘图并完成改写和字体嵌入
// 文档中没有绘图时不做任何修改，出错时文档保持原样
func (s *Subsetter) Process(doc *ass.Document) error {
	if err := doc.Parse(); err != nil {
		return err
	}

	alloc, err := drawing.NewAllocator(s.cfg.first, s.cfg.last)
	if err != nil {
		return err
	}
	s.reserveTextRunes(doc, alloc)

	rewrites, err := s.collect(doc, alloc)
	if err != nil {
		return err
	}
	if alloc.Len() == 0 {
		if s.cfg.fn != nil {
			s.cfg.fn(font.NewInfoMsg("no vector drawings found, document left unchanged"))
		}
		return nil
	}

	assignments := alloc.Assignments()
	data, err := font.BuildGlyphFont(s.cfg.fontName, assignments)
	if err != nil {
		return err
	}

	// 嵌入子集化后的字节，子集化同时充当字体完整性的自检
	keep := make([]rune, 0, len(assignments))
	for _, as := range assignments {
		keep = append(keep, as.Codepoint)
	}
	subset, err := font.SubsetGlyphFont(data, keep)
	if err != nil {
		return fmt.Errorf("failed to subset embedded font: %w", err)
	}

	resolve := s.styleResolver(doc)
	for _, er := range rewrites {
		si, _ := doc.StyleForEvent(er.event)
		base := styleState(si)
		er.event.SetText(rewriteText(er.event.RawText(), er.groups, base, resolve, s.cfg.fontName))
	}

	doc.SetFontEntry(ass.FontEntry{
		Name:  s.cfg.fontName + "_0.ttf",
		Lines: ass.UUEncode(subset),
	})
	if s.cfg.fn != nil {
		s.cfg.fn(font.NewInfoMsg(`embedded font "%s": %d glyphs, %d bytes`,
			s.cfg.fontName, len(assignments)+1, len(subset)))
	}
	return nil
}

// ProcessFile 读入 ASS 文件并把优化结果写到 output，返回输出路径
// output 为空时写到输入文件旁的 <名称>_optimized.ass
func (s *Subsetter) ProcessFile(input, output string) (string, error) {
	f, err := os.Open(input)
	if err != nil {
		return "", fmt.Errorf("failed to open input file: %w", err)
	}
	doc, err := ass.NewDocument(f)
	f.Close()
	if err != nil {
		return "", err
	}

	if err := s.Process(doc); err != nil {
		return "", err
	}

	if output == "" {
		ext := filepath.Ext(input)
		output = strings.TrimSuffix(input, ext) + "_optimized" + ext
	}
	// 先在内存中组装完整输出，写盘失败不会留下半个文件
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return "", err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return output, nil
}

// reserveTextRunes 把事件纯文本里已出现的区内码点标记为占用
// 分配出的字形不能和字幕原有字符冲突
func (s *Subsetter) reserveTextRunes(doc *ass.Document, alloc *drawing.Allocator) {
	for i := range doc.EventTable.Rows {
		for _, r := range ass.CleanEffects(doc.EventTable.Rows[i].RawText()) {
			if r >= s.cfg.first && r <= s.cfg.last {
				alloc.Reserve(r)
			}
		}
	}
}

// collect 扫描全部事件，解析绘图负载并分配码点
// Comment 行照常处理，改回 Dialogue 后字形仍然可用
func (s *Subsetter) collect(doc *ass.Document, alloc *drawing.Allocator) ([]eventRewrite, error) {
	var rewrites []eventRewrite
	for i := range doc.EventTable.Rows {
		ev := &doc.EventTable.Rows[i]
		text := ev.RawText()
		groups := drawing.ExtractGroups(text)
		if len(groups) == 0 {
			continue
		}
		er := eventRewrite{event: ev}
		for _, g := range groups {
			gr := groupRewrite{group: g}
			for _, span := range g.Runs {
				rr, err := s.resolveRun(text, span, g.Exponent, alloc)
				if err != nil {
					return nil, fmt.Errorf("failed to rewrite drawing at line %d: %w", ev.LineNum(), err)
				}
				gr.runs = append(gr.runs, rr)
			}
			er.groups = append(er.groups, gr)
		}
		rewrites = append(rewrites, er)
	}
	return rewrites, nil
}

// resolveRun 解析一段负载并为其形状分配码点
// 空白负载不是形状，直接删除；退化形状无法成为字形，整个文件报错终止
func (s *Subsetter) resolveRun(text string, span drawing.Span, exponent int, alloc *drawing.Allocator) (runRewrite, error) {
	rr := runRewrite{span: span}
	cmds, err := drawing.ParsePath(text[span.Start:span.End], exponent)
	if err != nil {
		return rr, err
	}
	if len(cmds) == 0 {
		return rr, nil
	}

	shape := drawing.NewShape(cmds)
	cp, fresh, err := alloc.Assign(shape)
	if err != nil {
		return rr, err
	}

	minX, minY, maxX, maxY, ok := shape.BBox()
	if !ok {
		return rr, font.NewErrGlyphConstruction(cp, "shape has no contours")
	}
	if maxY == minY {
		return rr, font.NewErrGlyphConstruction(cp, "shape bounding box has zero height")
	}

	rr.glyph = cp
	rr.fsText = formatSize(maxY - minY)
	if fresh && s.cfg.fn != nil {
		s.cfg.fn(font.NewInfoMsg("%gx%g px drawing ---> U+%04X",
			maxX-minX, maxY-minY, cp))
	}
	return rr, nil
}

func (s *Subsetter) styleResolver(doc *ass.Document) styleResolver {
	return func(name string) (overrideState, bool) {
		si, ok := doc.StyleTable.GetStyleByName(name)
		if !ok {
			return overrideState{}, false
		}
		return styleState(si), true
	}
}

// formatSize 按最短十进制形式输出尺寸，坐标值都是 1/8 像素的整数倍
func formatSize(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
