// Package maanova holds handles to R/maanova objects living in the
// interpreter. A handle is the accessor expression which reaches the object
// (for example `expt1$design`) plus typed reads over it. Handles hold no
// data themselves; every read goes to the interpreter.
package maanova

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jmaanova/jmaanova/pkg/rsession"
	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

// parentAttribute links a fit or test object to the object it was computed from.
const parentAttribute = "jmaanova.parent"

// RObject is a value in the interpreter reached by an accessor expression.
type RObject struct {
	engine   rsession.Engine
	accessor string
}

// NewRObject returns a handle for accessor evaluated by engine.
func NewRObject(engine rsession.Engine, accessor string) RObject {
	return RObject{engine: engine, accessor: accessor}
}

// Accessor returns the R expression reaching the object.
func (o RObject) Accessor() string {
	return o.accessor
}

// isBinding reports whether the accessor is a plain top level name.
func (o RObject) isBinding() bool {
	return rsyntax.IsValidIdentifier(o.accessor)
}

// member returns the accessor of a named component.
func (o RObject) member(component string) string {
	return rsyntax.Member(o.accessor, component)
}

// Exists reports whether the object is bound and not NULL.
func (o RObject) Exists() (bool, error) {
	var statement string
	if o.isBinding() {
		statement = existsCall(o.accessor)
	} else {
		statement = rsyntax.Call("tryCatch",
			rsyntax.Positional(rsyntax.Call("!is.null", rsyntax.Positional(o.accessor))),
			rsyntax.Named("error", "function(e) FALSE"))
	}
	value, err := o.engine.Eval(statement)
	if err != nil {
		return false, err
	}
	return value.AsBool()
}

// Class returns the first element of the object's class attribute.
func (o RObject) Class() (string, error) {
	value, err := o.engine.Eval(rsyntax.Call("class", rsyntax.Positional(o.accessor)) + "[1]")
	if err != nil {
		return "", err
	}
	return value.AsString()
}

// Delete removes the object. Top level bindings are removed from the global
// environment, components are set to NULL.
func (o RObject) Delete() error {
	var statement string
	if o.isBinding() {
		statement = rsyntax.Call("rm",
			rsyntax.Named("list", rsyntax.String(o.accessor)),
			rsyntax.Named("envir", "globalenv()"))
	} else {
		statement = rsyntax.Assign(o.accessor, "NULL")
	}
	log.Debugf("Deleting %s", o.accessor)
	return errors.Wrapf(o.engine.VoidEval(statement), "cannot delete %s", o.accessor)
}

// parent returns the value of the parent attribute, or an empty string when
// the object has none.
func (o RObject) parent() (string, error) {
	value, err := o.engine.Eval(rsyntax.Call("attr",
		rsyntax.Positional(o.accessor), rsyntax.Positional(rsyntax.String(parentAttribute))))
	if err != nil {
		return "", err
	}
	if value.IsNull() {
		return "", nil
	}
	return value.AsString()
}

// tag sets the parent attribute.
func (o RObject) tag(parent string) error {
	target := rsyntax.Call("attr", rsyntax.Positional(o.accessor), rsyntax.Positional(rsyntax.String(parentAttribute)))
	return o.engine.VoidEval(rsyntax.Assign(target, rsyntax.String(parent)))
}

func (o RObject) evalInt(expression string) (int, error) {
	value, err := o.engine.Eval(rsyntax.Call("as.integer", rsyntax.Positional(expression)))
	if err != nil {
		return 0, err
	}
	return value.AsInt()
}

func (o RObject) evalStrings(expression string) ([]string, error) {
	value, err := o.engine.Eval(expression)
	if err != nil {
		return nil, err
	}
	return value.AsStrings()
}

func (o RObject) evalDoubles(expression string) ([]float64, error) {
	value, err := o.engine.Eval(expression)
	if err != nil {
		return nil, err
	}
	return value.AsDoubles()
}

func existsCall(name string) string {
	return rsyntax.Call("exists", rsyntax.Positional(rsyntax.String(name)),
		rsyntax.Named("envir", "globalenv()"), rsyntax.Named("inherits", "FALSE"))
}

// children returns the global bindings tagged with parent whose class is class.
func children(engine rsession.Engine, parent, class string) ([]string, error) {
	filter := "function(n) { o <- get(n, envir=globalenv()); " +
		"identical(attr(o, " + rsyntax.String(parentAttribute) + "), " + rsyntax.String(parent) + ") && " +
		"inherits(o, " + rsyntax.String(class) + ") }"
	value, err := engine.Eval(rsyntax.Call("Filter",
		rsyntax.Positional(filter),
		rsyntax.Positional(rsyntax.Call("ls", rsyntax.Named("envir", "globalenv()")))))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot list %s objects of %s", class, parent)
	}
	return value.AsStrings()
}

// resultName checks the name a builder assigns its result to.
func resultName(name string) (string, error) {
	return rsyntax.ToIdentifier(name)
}
