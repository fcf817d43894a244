package document

import "errors"

var (
	// ErrSyntax indicates input that is neither JSON nor YAML.
	ErrSyntax = errors.New("document: syntax error")

	// ErrKeyType indicates a mapping key that is not a string.
	ErrKeyType = errors.New("document: mapping key is not a string")

	// ErrUTF8 indicates a key or string that is not valid UTF-8.
	ErrUTF8 = errors.New("document: invalid utf-8")

	// ErrRange indicates an integer outside the 32-bit range with widening
	// disabled.
	ErrRange = errors.New("document: integer out of range")

	// ErrType indicates a Go value with no tree representation.
	ErrType = errors.New("document: unsupported type")

	// ErrDepth indicates nesting deeper than Options.MaxDepth.
	ErrDepth = errors.New("document: nesting too deep")
)
