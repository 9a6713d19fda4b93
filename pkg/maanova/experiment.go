package maanova

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jmaanova/jmaanova/pkg/commands"
	"github.com/jmaanova/jmaanova/pkg/rsession"
	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

// Experiment is a madata object bound to a top level name.
type Experiment struct {
	RObject
}

// NewExperiment returns a handle for the madata object bound to name.
func NewExperiment(engine rsession.Engine, name string) *Experiment {
	return &Experiment{RObject: NewRObject(engine, name)}
}

// ReadExperiment runs a read.madata statement and returns a handle to its
// result. The builder's result name must be convertible to an R name.
func ReadExperiment(engine rsession.Engine, builder *commands.ReadMicroarrayData) (*Experiment, error) {
	name, err := resultName(builder.ResultName)
	if err != nil {
		return nil, err
	}
	if err := builder.Validate(); err != nil {
		return nil, err
	}

	named := *builder
	named.ResultName = name
	if err := engine.VoidEval(named.Command()); err != nil {
		return nil, errors.Wrapf(err, "cannot read experiment %q", name)
	}
	log.Infof("Read experiment %s", name)
	return NewExperiment(engine, name), nil
}

// Name returns the binding name.
func (e *Experiment) Name() string {
	return e.accessor
}

// MicroarrayCount returns the number of arrays.
func (e *Experiment) MicroarrayCount() (int, error) {
	return e.evalInt(e.member("n.array"))
}

// GeneCount returns the number of genes.
func (e *Experiment) GeneCount() (int, error) {
	return e.evalInt(e.member("n.gene"))
}

// ReplicateCount returns the number of replicates per gene.
func (e *Experiment) ReplicateCount() (int, error) {
	return e.evalInt(e.member("n.rep"))
}

// DyeCount returns the number of dyes. n.dye is read as an integer first and
// as a truncated double when that fails or reads zero, since the value is not
// always stored as an integer.
func (e *Experiment) DyeCount() (int, error) {
	value, err := e.engine.Eval(e.member("n.dye"))
	if err != nil {
		return 0, err
	}
	count, err := value.AsInt()
	if err == nil && count != 0 {
		return count, nil
	}
	log.Debugf("n.dye of %s is %s, reading it as a double", e.accessor, value)
	return value.AsIntTruncated()
}

// ProbesetIDs returns the probe identifiers, formatted as strings when R
// read them as numbers.
func (e *Experiment) ProbesetIDs() ([]string, error) {
	return e.evalStrings(e.member("probeid"))
}

// DataColumnCount returns the number of intensity columns. Two color data
// holds one column per array and dye.
func (e *Experiment) DataColumnCount() (int, error) {
	return e.evalInt(rsyntax.Call("NCOL", rsyntax.Positional(e.member("data"))))
}

// Data returns the intensity column array, counted from 1.
func (e *Experiment) Data(array int) ([]float64, error) {
	if array < 1 {
		return nil, errors.Errorf("array index must be at least 1, got %d", array)
	}
	return e.evalDoubles(e.member("data") + "[, " + rsyntax.Int(array) + "]")
}

// Design returns the design table of the experiment.
func (e *Experiment) Design() *Design {
	return &Design{RObject: NewRObject(e.engine, e.member("design"))}
}

// GeneLists returns the named gene lists stored for the experiment.
func (e *Experiment) GeneLists() *GeneLists {
	return &GeneLists{RObject: NewRObject(e.engine, e.accessor+".genelists")}
}

// Transform runs transform.madata on the experiment and returns the
// transformed experiment.
func (e *Experiment) Transform(builder *commands.TransformData) (*Experiment, error) {
	name, err := resultName(builder.ResultName)
	if err != nil {
		return nil, err
	}
	transform := *builder
	transform.ResultName = name
	transform.Data = e.accessor
	if err := e.engine.VoidEval(transform.Command()); err != nil {
		return nil, errors.Wrapf(err, "cannot transform %s", e.accessor)
	}
	return NewExperiment(e.engine, name), nil
}

// Fit runs fitmaanova on the experiment and tags the result as its child.
func (e *Experiment) Fit(builder *commands.FitMaanova) (*FitResult, error) {
	name, err := resultName(builder.ResultName)
	if err != nil {
		return nil, err
	}
	fit := *builder
	fit.ResultName = name
	fit.Data = e.accessor
	if err := fit.Validate(); err != nil {
		return nil, err
	}

	if err := e.engine.VoidEval(fit.Command()); err != nil {
		return nil, errors.Wrapf(err, "cannot fit %s", e.accessor)
	}
	result := newFitResult(e.engine, name, e.accessor)
	if err := result.tag(e.accessor); err != nil {
		return nil, err
	}
	if err := result.tagTerms(fit.FixedTerms); err != nil {
		return nil, err
	}
	log.Infof("Fitted %s on %s with %s", name, e.accessor, rsyntax.Formula(fit.FixedTerms))
	return result, nil
}

// FitResults returns the fits computed from the experiment.
func (e *Experiment) FitResults() ([]*FitResult, error) {
	names, err := children(e.engine, e.accessor, fitClass)
	if err != nil {
		return nil, err
	}
	fits := make([]*FitResult, len(names))
	for i, name := range names {
		fits[i] = newFitResult(e.engine, name, e.accessor)
	}
	return fits, nil
}

// TestResults returns the tests tagged directly with the experiment.
// Tests computed from fits are reached through FitResults.
func (e *Experiment) TestResults() ([]*TestResult, error) {
	names, err := children(e.engine, e.accessor, testClass)
	if err != nil {
		return nil, err
	}
	tests := make([]*TestResult, len(names))
	for i, name := range names {
		tests[i] = newTestResult(e.engine, name, e.accessor)
	}
	return tests, nil
}

// Delete removes the gene lists, tests and fits of the experiment and then
// the experiment itself. It stops at the first failure, leaving what was
// not deleted yet in place.
func (e *Experiment) Delete() error {
	if err := e.GeneLists().DeleteAll(); err != nil {
		return err
	}

	tests, err := e.TestResults()
	if err != nil {
		return err
	}
	for _, test := range tests {
		if err := test.Delete(); err != nil {
			return err
		}
	}

	fits, err := e.FitResults()
	if err != nil {
		return err
	}
	for _, fit := range fits {
		if err := fit.Delete(); err != nil {
			return err
		}
	}

	return e.RObject.Delete()
}
