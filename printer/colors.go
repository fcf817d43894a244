package printer

import (
	"fmt"

	"github.com/fatih/color"
)

// palette colors the pieces of the text format. With colors off every
// function returns its input unchanged.
type palette struct {
	key    func(a ...any) string
	str    func(a ...any) string
	number func(a ...any) string
	atom   func(a ...any) string // null, true, false, <empty>
}

func newPalette(enabled bool) palette {
	if !enabled {
		return palette{key: fmt.Sprint, str: fmt.Sprint, number: fmt.Sprint, atom: fmt.Sprint}
	}
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}
	return palette{
		key:    mk(color.FgBlue, color.Bold),
		str:    mk(color.FgGreen),
		number: mk(color.FgCyan),
		atom:   mk(color.FgMagenta),
	}
}
