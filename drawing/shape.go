package drawing

import (
	"strconv"
	"strings"
)

// Shape 是一条绘图路径的规范形式
// 键只由指令序列和定点坐标决定，与原始文本的空白和指令连写方式无关
// 两个 Shape 的键相同时视为同一形状，共用一个字形
type Shape struct {
	Commands []Command

	key string
}

func NewShape(cmds []Command) *Shape {
	return &Shape{Commands: cmds}
}

var kindLetters = [...]byte{
	CmdMoveTo:      'm',
	CmdLineTo:      'l',
	CmdCubicTo:     'b',
	CmdSplineTo:    's',
	CmdCloseSpline: 'c',
}

// Key 返回形状的规范键
func (s *Shape) Key() string {
	if s.key != "" {
		return s.key
	}
	var b strings.Builder
	for _, cmd := range s.Commands {
		b.WriteByte(kindLetters[cmd.Kind])
		for _, pt := range cmd.Points {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatInt(int64(pt.X), 10))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatInt(int64(pt.Y), 10))
		}
		b.WriteByte(';')
	}
	s.key = b.String()
	return s.key
}

// PointF 是以像素为单位的浮点坐标
type PointF struct {
	X float64
	Y float64
}

// Segment 是展开样条之后的一段轮廓
// 直线段只使用 P3，曲线段使用 P1 P2 P3
type Segment struct {
	Kind CommandKind
	P1   PointF
	P2   PointF
	P3   PointF
}

// Contour 是一条从 Start 出发的轮廓，字体轮廓自动闭合回起点
type Contour struct {
	Start    PointF
	Segments []Segment
}

// Contours 展开样条后的轮廓序列，坐标换算为像素
// 均匀三次 B 样条按跨度转成贝塞尔段，闭合样条把前三个 de Boor 点回卷到末尾
func (s *Shape) Contours() []Contour {
	var contours []Contour
	var cur *Contour
	var pen PointF

	flush := func() {
		if cur != nil && len(cur.Segments) > 0 {
			contours = append(contours, *cur)
		}
		cur = nil
	}

	for i := 0; i < len(s.Commands); i++ {
		cmd := s.Commands[i]
		switch cmd.Kind {
		case CmdMoveTo:
			flush()
			pen = toPixel(cmd.Points[0])
			cur = &Contour{Start: pen}

		case CmdLineTo:
			if cur == nil {
				continue
			}
			for _, pt := range cmd.Points {
				p := toPixel(pt)
				cur.Segments = append(cur.Segments, Segment{Kind: CmdLineTo, P3: p})
				pen = p
			}

		case CmdCubicTo:
			if cur == nil {
				continue
			}
			for j := 0; j+2 < len(cmd.Points); j += 3 {
				p1 := toPixel(cmd.Points[j])
				p2 := toPixel(cmd.Points[j+1])
				p3 := toPixel(cmd.Points[j+2])
				cur.Segments = append(cur.Segments, Segment{Kind: CmdCubicTo, P1: p1, P2: p2, P3: p3})
				pen = p3
			}

		case CmdSplineTo:
			if cur == nil {
				continue
			}
			closed := i+1 < len(s.Commands) && s.Commands[i+1].Kind == CmdCloseSpline
			pen = appendSpline(cur, pen, cmd.Points, closed)

		case CmdCloseSpline:
			// 展开样条时已经一并处理
		}
	}
	flush()
	return contours
}

// 把均匀三次 B 样条展开为贝塞尔段
// 画笔位置是第一个 de Boor 点，曲线从第一跨度的起点开始，画笔先以直线段走到那里
// 返回展开后新的画笔位置
func appendSpline(c *Contour, pen PointF, pts []Point, closed bool) PointF {
	d := make([]PointF, 0, len(pts)+4)
	d = append(d, pen)
	for _, pt := range pts {
		d = append(d, toPixel(pt))
	}
	if closed {
		d = append(d, d[0], d[1], d[2])
	}

	first := true
	for i := 0; i+3 < len(d); i++ {
		d0, d1, d2, d3 := d[i], d[i+1], d[i+2], d[i+3]
		if first {
			b0 := PointF{
				X: (d0.X + 4*d1.X + d2.X) / 6,
				Y: (d0.Y + 4*d1.Y + d2.Y) / 6,
			}
			c.Segments = append(c.Segments, Segment{Kind: CmdLineTo, P3: b0})
			first = false
		}
		b1 := PointF{X: (2*d1.X + d2.X) / 3, Y: (2*d1.Y + d2.Y) / 3}
		b2 := PointF{X: (d1.X + 2*d2.X) / 3, Y: (d1.Y + 2*d2.Y) / 3}
		b3 := PointF{
			X: (d1.X + 4*d2.X + d3.X) / 6,
			Y: (d1.Y + 4*d2.Y + d3.Y) / 6,
		}
		c.Segments = append(c.Segments, Segment{Kind: CmdCubicTo, P1: b1, P2: b2, P3: b3})
		pen = b3
	}
	return pen
}

// BBox 返回展开后轮廓的控制点包围盒，单位像素
// 曲线控制点也参与计算，和渲染器对绘图使用的粗包围盒一致
// 没有任何轮廓时 ok 为 false
func (s *Shape) BBox() (minX, minY, maxX, maxY float64, ok bool) {
	include := func(p PointF) {
		if !ok {
			minX, minY, maxX, maxY = p.X, p.Y, p.X, p.Y
			ok = true
			return
		}
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}

	for _, contour := range s.Contours() {
		include(contour.Start)
		for _, seg := range contour.Segments {
			if seg.Kind == CmdCubicTo {
				include(seg.P1)
				include(seg.P2)
			}
			include(seg.P3)
		}
	}
	return
}

func toPixel(pt Point) PointF {
	return PointF{X: float64(pt.X) / 8, Y: float64(pt.Y) / 8}
}
