package subsetter

import (
	"github.com/MontageSubs/ass-tools/font"
)

const (
	defaultFontName       = "ASSDrawSubset" // 嵌入字体的族名
	defaultCodepointFirst = 0xE000          // BMP 私用区起点
	defaultCodepointLast  = 0xF8FF          // BMP 私用区终点
)

type Option func(*config)

type config struct {
	fontName string
	first    rune
	last     rune
	fn       font.CheckErrFn
}

func defaultConfig() *config {
	return &config{
		fontName: defaultFontName,
		first:    defaultCodepointFirst,
		last:     defaultCodepointLast,
	}
}

// WithFontName 设置嵌入字体的族名，空串保持默认值
func WithFontName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.fontName = name
		}
	}
}

// WithCodepointRange 设置字形码点的分配区间，闭区间
func WithCodepointRange(first, last rune) Option {
	return func(c *config) {
		c.first = first
		c.last = last
	}
}

func WithCheckErr(fn font.CheckErrFn) Option {
	return func(c *config) {
		c.fn = fn
	}
}
