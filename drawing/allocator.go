package drawing

import (
	"fmt"
)

// Assignment 是一个形状和分配给它的码点
type Assignment struct {
	Codepoint rune
	Shape     *Shape
}

// Allocator 按首次出现顺序为形状分配私有区码点
// 相同键的形状复用同一码点，分配结果只取决于形状的出现顺序
type Allocator struct {
	next     rune
	hi       rune
	reserved map[rune]struct{}
	byKey    map[string]rune
	order    []Assignment
}

// NewAllocator 创建分配器，分配区间为 [lo, hi]
// 区间必须落在基本多文种平面内且不含 ASCII，代理区在分配时自动跳过
func NewAllocator(lo, hi rune) (*Allocator, error) {
	if lo > hi || lo < 0x00A0 || hi > 0xFFFF {
		return nil, fmt.Errorf("%w: %U..%U", ErrInvalidCodepointRange, lo, hi)
	}
	return &Allocator{
		next:     lo,
		hi:       hi,
		reserved: make(map[rune]struct{}),
		byKey:    make(map[string]rune),
	}, nil
}

// Reserve 把码点标记为已占用，分配时跳过
// 用于避开字幕文本、已嵌入字体已经使用的码点
func (a *Allocator) Reserve(r rune) {
	a.reserved[r] = struct{}{}
}

// Assign 返回形状对应的码点
// 形状第一次出现时分配新码点并登记，fresh 为 true
func (a *Allocator) Assign(shape *Shape) (cp rune, fresh bool, err error) {
	key := shape.Key()
	if cp, ok := a.byKey[key]; ok {
		return cp, false, nil
	}

	cp, err = a.allocate()
	if err != nil {
		return 0, false, err
	}
	a.byKey[key] = cp
	a.order = append(a.order, Assignment{Codepoint: cp, Shape: shape})
	return cp, true, nil
}

func (a *Allocator) allocate() (rune, error) {
	for a.next <= a.hi {
		cp := a.next
		a.next++
		if cp >= 0xD800 && cp <= 0xDFFF {
			continue
		}
		if _, ok := a.reserved[cp]; ok {
			continue
		}
		return cp, nil
	}
	return 0, ErrCodepointsExhausted
}

// Assignments 按分配顺序返回全部条目
func (a *Allocator) Assignments() []Assignment {
	return a.order
}

// Len 返回已分配的形状数
func (a *Allocator) Len() int {
	return len(a.order)
}
