package drawing

import (
	"errors"
	"fmt"
)

var (
	ErrCodepointsExhausted   = errors.New("private use codepoints exhausted")
	ErrInvalidCodepointRange = errors.New("invalid codepoint range")
)

type ErrMalformedPath struct {
	token  string
	index  int
	reason string
}

func NewErrMalformedPath(token string, index int, reason string) *ErrMalformedPath {
	return &ErrMalformedPath{
		token:  token,
		index:  index,
		reason: reason,
	}
}

func (e *ErrMalformedPath) Error() string {
	return fmt.Sprintf(`malformed drawing path at token #%d "%s": %s`, e.index, e.token, e.reason)
}

var _ error = (*ErrMalformedPath)(nil)
