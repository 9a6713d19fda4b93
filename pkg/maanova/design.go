package maanova

import (
	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

// Design is the design table of an experiment.
type Design struct {
	RObject
}

// Factors returns the column names of the design.
func (d *Design) Factors() ([]string, error) {
	return d.evalStrings(rsyntax.Call("colnames", rsyntax.Positional(d.accessor)))
}

// Column returns the values of a design column as strings.
func (d *Design) Column(name string) ([]string, error) {
	return d.evalStrings(rsyntax.Call("as.character",
		rsyntax.Positional(d.accessor+"[, "+rsyntax.String(name)+"]")))
}
