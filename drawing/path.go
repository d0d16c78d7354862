package drawing

import (
	"math"
	"strconv"
	"strings"
)

// CommandKind 标识一条绘图指令的类型
type CommandKind uint8

const (
	CmdMoveTo      CommandKind = iota // m/n 移动画笔，开始新轮廓
	CmdLineTo                         // l 直线段
	CmdCubicTo                        // b 三次贝塞尔段，3 个控制点
	CmdSplineTo                       // s/p 均匀三次 B 样条的 de Boor 点序列
	CmdCloseSpline                    // c 闭合样条
)

// Point 是 1/8 像素为单位的定点坐标
type Point struct {
	X int32
	Y int32
}

// Command 是一条解析后的绘图指令
// 样条指令把 s 和后续 p 扩展的全部控制点合并在一条指令里
type Command struct {
	Kind   CommandKind
	Points []Point
}

// ParsePath 把 \p 模式下的绘图串解析为指令序列
// exponent 是 \pN 的 N，坐标先除以 2^(N-1) 再换算为 1/8 像素定点值
// 空负载返回 nil 指令且不视为错误
func ParsePath(payload string, exponent int) ([]Command, error) {
	tokens := strings.Fields(payload)
	if len(tokens) == 0 {
		return nil, nil
	}
	if exponent < 1 {
		exponent = 1
	}

	p := pathParser{tokens: tokens, exponent: exponent}
	return p.run()
}

type pathParser struct {
	tokens   []string
	pos      int
	exponent int

	cmds       []Command
	cur        byte // 当前指令字母，后续裸坐标沿用它
	moved      bool // 是否已出现过移动指令
	splineOpen bool // 是否有未闭合的样条
}

func (p *pathParser) run() ([]Command, error) {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		var letter byte

		switch {
		case isCommandToken(tok):
			letter = tok[0]
			if letter == 'n' {
				// n 和 m 一样移动画笔，区别只在渲染器闭合未完成的轮廓的方式
				letter = 'm'
			}
			p.pos++
		case isNumericToken(tok):
			// 语法规定裸坐标沿用上一条指令的字母
			if p.cur == 0 {
				return nil, NewErrMalformedPath(tok, p.pos, "coordinates before any command letter")
			}
			if p.cur == 'c' {
				return nil, NewErrMalformedPath(tok, p.pos, "coordinates after a close command")
			}
			letter = p.cur
			if letter == 's' && p.splineOpen {
				// s 之后的裸坐标继续延长当前样条
				letter = 'p'
			}
		default:
			return nil, NewErrMalformedPath(tok, p.pos, "unknown command letter")
		}

		if err := p.dispatch(letter, tok); err != nil {
			return nil, err
		}
		p.cur = letter
	}
	return p.cmds, nil
}

func (p *pathParser) dispatch(letter byte, tok string) error {
	switch letter {
	case 'm':
		pt, err := p.takePoint()
		if err != nil {
			return err
		}
		p.splineOpen = false
		p.moved = true
		p.cmds = append(p.cmds, Command{Kind: CmdMoveTo, Points: []Point{pt}})

	case 'l':
		if !p.moved {
			return NewErrMalformedPath(tok, p.pos, "segment before any move command")
		}
		pt, err := p.takePoint()
		if err != nil {
			return err
		}
		p.splineOpen = false
		p.cmds = append(p.cmds, Command{Kind: CmdLineTo, Points: []Point{pt}})

	case 'b':
		if !p.moved {
			return NewErrMalformedPath(tok, p.pos, "segment before any move command")
		}
		pts := make([]Point, 0, 3)
		for i := 0; i < 3; i++ {
			pt, err := p.takePoint()
			if err != nil {
				return err
			}
			pts = append(pts, pt)
		}
		p.splineOpen = false
		p.cmds = append(p.cmds, Command{Kind: CmdCubicTo, Points: pts})

	case 's':
		if !p.moved {
			return NewErrMalformedPath(tok, p.pos, "segment before any move command")
		}
		pts := make([]Point, 0, 3)
		for i := 0; i < 3; i++ {
			pt, err := p.takePoint()
			if err != nil {
				return err
			}
			pts = append(pts, pt)
		}
		p.cmds = append(p.cmds, Command{Kind: CmdSplineTo, Points: pts})
		p.splineOpen = true

	case 'p':
		if !p.splineOpen {
			return NewErrMalformedPath(tok, p.pos, "extend command without an open spline")
		}
		pt, err := p.takePoint()
		if err != nil {
			return err
		}
		last := &p.cmds[len(p.cmds)-1]
		last.Points = append(last.Points, pt)

	case 'c':
		// 没有打开的样条时 c 是无害的空指令
		if p.splineOpen {
			p.cmds = append(p.cmds, Command{Kind: CmdCloseSpline})
			p.splineOpen = false
		}
	}
	return nil
}

// 读取一对坐标
func (p *pathParser) takePoint() (Point, error) {
	x, err := p.takeCoordinate()
	if err != nil {
		return Point{}, err
	}
	y, err := p.takeCoordinate()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// 读取一个坐标并换算为 1/8 像素定点值
func (p *pathParser) takeCoordinate() (int32, error) {
	if p.pos >= len(p.tokens) {
		last := len(p.tokens) - 1
		return 0, NewErrMalformedPath(p.tokens[last], last, "expected a coordinate")
	}
	tok := p.tokens[p.pos]
	if !isNumericToken(tok) {
		return 0, NewErrMalformedPath(tok, p.pos, "expected a coordinate")
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, NewErrMalformedPath(tok, p.pos, "invalid coordinate")
	}
	p.pos++
	return int32(math.Round(math.Ldexp(v, 4-p.exponent))), nil
}

func isCommandToken(tok string) bool {
	if len(tok) != 1 {
		return false
	}
	switch tok[0] {
	case 'm', 'n', 'l', 'b', 's', 'p', 'c':
		return true
	}
	return false
}

// 坐标只接受十进制数字，可带符号和小数点
func isNumericToken(tok string) bool {
	i := 0
	if tok[i] == '+' || tok[i] == '-' {
		i++
	}
	digits, dot := false, false
	for ; i < len(tok); i++ {
		switch {
		case tok[i] >= '0' && tok[i] <= '9':
			digits = true
		case tok[i] == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits
}
