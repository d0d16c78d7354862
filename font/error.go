package font

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyAssignments = errors.New("no drawing assignments collected")
	ErrFontDataTooShort = errors.New("font data too short")
)

// CheckErrFn 返回 false 时终止当前处理流程
type CheckErrFn func(error) bool

type ErrGlyphConstruction struct {
	codepoint rune
	reason    string
}

func NewErrGlyphConstruction(cp rune, reason string) *ErrGlyphConstruction {
	return &ErrGlyphConstruction{
		codepoint: cp,
		reason:    reason,
	}
}

func (e *ErrGlyphConstruction) Error() string {
	return fmt.Sprintf("failed to construct glyph for U+%04X: %s", e.codepoint, e.reason)
}

type ErrMissingCodepoint struct {
	codepoint rune
}

func NewErrMissingCodepoint(cp rune) *ErrMissingCodepoint {
	return &ErrMissingCodepoint{codepoint: cp}
}

func (e *ErrMissingCodepoint) Error() string {
	return fmt.Sprintf("subset font has no glyph for U+%04X", e.codepoint)
}

type ErrChecksumMismatch struct {
	table    string
	stored   uint32
	computed uint32
}

func NewErrChecksumMismatch(table string, stored, computed uint32) *ErrChecksumMismatch {
	return &ErrChecksumMismatch{
		table:    table,
		stored:   stored,
		computed: computed,
	}
}

func (e *ErrChecksumMismatch) Error() string {
	return fmt.Sprintf(`checksum mismatch in "%s": stored 0x%08X, computed 0x%08X`, e.table, e.stored, e.computed)
}

type ErrUnsupportedSfntVersion struct {
	version uint32
}

func NewErrUnsupportedSfntVersion(v uint32) *ErrUnsupportedSfntVersion {
	return &ErrUnsupportedSfntVersion{version: v}
}

func (e *ErrUnsupportedSfntVersion) Error() string {
	return fmt.Sprintf("unsupported sfnt version: 0x%08X", e.version)
}

type InfoMsg string

func NewInfoMsg(format string, a ...any) *InfoMsg {
	m := InfoMsg(fmt.Sprintf(format, a...))
	return &m
}

func (m InfoMsg) Error() string {
	return string(m)
}

type WarningMsg string

func NewWarningMsg(format string, a ...any) *WarningMsg {
	w := WarningMsg(fmt.Sprintf(format, a...))
	return &w
}

func (w WarningMsg) Error() string {
	return string(w)
}

var _ error = (*ErrGlyphConstruction)(nil)
var _ error = (*ErrMissingCodepoint)(nil)
var _ error = (*ErrChecksumMismatch)(nil)
var _ error = (*ErrUnsupportedSfntVersion)(nil)
var _ error = (*InfoMsg)(nil)
var _ error = (*WarningMsg)(nil)
