package maanova

import (
	"math"

	"github.com/pkg/errors"

	"github.com/jmaanova/jmaanova/pkg/commands"
	"github.com/jmaanova/jmaanova/pkg/results"
	"github.com/jmaanova/jmaanova/pkg/rsession"
	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

const testClass = "matest"

// TestKind selects which F statistic of a matest object is read.
type TestKind string

// F statistics computed by matest.
const (
	F1 TestKind = "F1"
	Fs TestKind = "Fs"
)

// TestResult is a matest object.
type TestResult struct {
	RObject
	parent string
}

func newTestResult(engine rsession.Engine, name, parent string) *TestResult {
	return &TestResult{RObject: NewRObject(engine, name), parent: parent}
}

// Name returns the binding name.
func (t *TestResult) Name() string {
	return t.accessor
}

// Parent returns the name of the object the test was computed from.
func (t *TestResult) Parent() string {
	return t.parent
}

func (t *TestResult) component(kind TestKind, statistic results.Statistic) (string, error) {
	if kind != F1 && kind != Fs {
		return "", errors.Errorf("unknown test kind %q", kind)
	}
	name := statistic.Component()
	if name == "" {
		return "", errors.Errorf("%s is not stored in a test result", statistic)
	}
	return rsyntax.Member(t.member(string(kind)), name), nil
}

// Statistic returns one column of a statistic, counted from 1. Tests with a
// single contrast have one column.
func (t *TestResult) Statistic(kind TestKind, statistic results.Statistic, column int) ([]float64, error) {
	if column < 1 {
		return nil, errors.Errorf("column must be at least 1, got %d", column)
	}
	component, err := t.component(kind, statistic)
	if err != nil {
		return nil, err
	}
	expression := rsyntax.Call("as.matrix", rsyntax.Positional(component)) + "[, " + rsyntax.Int(column) + "]"
	return t.evalDoubles(expression)
}

// ColumnCount returns the number of contrasts tested.
func (t *TestResult) ColumnCount(kind TestKind) (int, error) {
	component, err := t.component(kind, results.FObserved)
	if err != nil {
		return 0, err
	}
	return t.evalInt(rsyntax.Call("NCOL", rsyntax.Positional(component)))
}

// FoldChange returns the fold change of levelA over levelB of term, computed
// from the estimates of the fit the test belongs to. Estimates are on a log2
// scale; down regulation is reported as the negative reciprocal.
func (t *TestResult) FoldChange(term, levelA, levelB string) ([]float64, error) {
	fit := newFitResult(t.engine, t.parent, "")
	a, err := fit.estimateOf(term, levelA)
	if err != nil {
		return nil, err
	}
	b, err := fit.estimateOf(term, levelB)
	if err != nil {
		return nil, err
	}
	if len(a) != len(b) {
		return nil, errors.Wrapf(results.ErrLengthMismatch, "estimates of %q (%d) and %q (%d)", levelA, len(a), levelB, len(b))
	}

	changes := make([]float64, len(a))
	for i := range a {
		changes[i] = foldChange(a[i] - b[i])
	}
	return changes, nil
}

func foldChange(logRatio float64) float64 {
	if logRatio >= 0 {
		return math.Pow(2, logRatio)
	}
	return -math.Pow(2, -logRatio)
}

// AdjustPValues runs adjPval on the test, replacing it with the adjusted version.
func (t *TestResult) AdjustPValues(method commands.AdjustmentMethod) error {
	if err := t.engine.VoidEval(commands.NewAdjustPValues(t.accessor, method).Command()); err != nil {
		return errors.Wrapf(err, "cannot adjust P values of %s", t.accessor)
	}
	// adjPval returns a new object; keep the parent link.
	return t.tag(t.parent)
}
