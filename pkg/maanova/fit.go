package maanova

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jmaanova/jmaanova/pkg/commands"
	"github.com/jmaanova/jmaanova/pkg/rsession"
	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

const (
	fitClass       = "maanova"
	termsAttribute = "jmaanova.terms"
)

// FitResult is a maanova object produced by fitmaanova.
type FitResult struct {
	RObject
	experiment string
}

func newFitResult(engine rsession.Engine, name, experiment string) *FitResult {
	return &FitResult{RObject: NewRObject(engine, name), experiment: experiment}
}

// Name returns the binding name.
func (f *FitResult) Name() string {
	return f.accessor
}

// Experiment returns the name of the experiment the fit was computed from.
func (f *FitResult) Experiment() string {
	return f.experiment
}

func (f *FitResult) tagTerms(terms []string) error {
	target := rsyntax.Call("attr", rsyntax.Positional(f.accessor), rsyntax.Positional(rsyntax.String(termsAttribute)))
	return f.engine.VoidEval(rsyntax.Assign(target, rsyntax.StringVector(terms)))
}

// Terms returns the fixed terms the model was fitted with.
func (f *FitResult) Terms() ([]string, error) {
	return f.evalStrings(rsyntax.Call("attr",
		rsyntax.Positional(f.accessor), rsyntax.Positional(rsyntax.String(termsAttribute))))
}

// Levels returns the level names of a term's estimate matrix.
func (f *FitResult) Levels(term string) ([]string, error) {
	return f.evalStrings(rsyntax.Call("colnames", rsyntax.Positional(f.member(term))))
}

// Estimates returns one column of estimates per level of term, in the order
// of Levels.
func (f *FitResult) Estimates(term string) ([][]float64, error) {
	levels, err := f.Levels(term)
	if err != nil {
		return nil, err
	}
	columns := make([][]float64, len(levels))
	for i := range levels {
		if columns[i], err = f.estimate(term, i+1); err != nil {
			return nil, err
		}
	}
	return columns, nil
}

func (f *FitResult) estimate(term string, column int) ([]float64, error) {
	return f.evalDoubles(f.member(term) + "[, " + rsyntax.Int(column) + "]")
}

// estimateOf returns the estimates of one named level.
func (f *FitResult) estimateOf(term, level string) ([]float64, error) {
	return f.evalDoubles(f.member(term) + "[, " + rsyntax.String(level) + "]")
}

// Test runs matest on the fit and tags the result as its child.
func (f *FitResult) Test(builder *commands.Matest) (*TestResult, error) {
	name, err := resultName(builder.ResultName)
	if err != nil {
		return nil, err
	}
	test := *builder
	test.ResultName = name
	test.Data = f.experiment
	test.Fit = f.accessor
	if err := test.Validate(); err != nil {
		return nil, err
	}

	if err := f.engine.VoidEval(test.Command()); err != nil {
		return nil, errors.Wrapf(err, "cannot test term %q of %s", test.Term, f.accessor)
	}
	result := newTestResult(f.engine, name, f.accessor)
	if err := result.tag(f.accessor); err != nil {
		return nil, err
	}
	log.Infof("Tested term %s of %s into %s", test.Term, f.accessor, name)
	return result, nil
}

// TestResults returns the tests computed from the fit.
func (f *FitResult) TestResults() ([]*TestResult, error) {
	names, err := children(f.engine, f.accessor, testClass)
	if err != nil {
		return nil, err
	}
	tests := make([]*TestResult, len(names))
	for i, name := range names {
		tests[i] = newTestResult(f.engine, name, f.accessor)
	}
	return tests, nil
}

// Delete removes the tests of the fit and then the fit.
func (f *FitResult) Delete() error {
	tests, err := f.TestResults()
	if err != nil {
		return err
	}
	for _, test := range tests {
		if err := test.Delete(); err != nil {
			return err
		}
	}
	return f.RObject.Delete()
}
