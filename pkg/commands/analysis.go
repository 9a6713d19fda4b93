package commands

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

// TransformMethod is the normalization applied by transform.madata.
type TransformMethod string

// Methods understood by transform.madata.
const (
	TransformShift       TransformMethod = "shift"
	TransformGlowess     TransformMethod = "glowess"
	TransformLinlog      TransformMethod = "linlog"
	TransformLinlogShift TransformMethod = "linlog-shift"
	TransformNone        TransformMethod = "no"
)

// TransformData builds transform.madata(<data>, method=...).
type TransformData struct {
	ResultName string
	Data       string
	Method     TransformMethod
	// LowessSpan is only used by the glowess method. Zero keeps R's default.
	LowessSpan decimal.Decimal
}

// Command implements Builder.
func (b *TransformData) Command() string {
	method := b.Method
	if method == "" {
		method = TransformShift
	}
	args := []rsyntax.Arg{
		rsyntax.Positional(b.Data),
		rsyntax.Named("method", rsyntax.String(string(method))),
	}
	if method == TransformGlowess && !b.LowessSpan.IsZero() {
		args = append(args, rsyntax.Named("lowess.span", rsyntax.Decimal(b.LowessSpan)))
	}
	return rsyntax.Assign(b.ResultName, rsyntax.Call("transform.madata", args...))
}

// FitMethod is the variance component estimator used by fitmaanova.
type FitMethod string

// Estimators understood by fitmaanova and matest.
const (
	REML  FitMethod = "REML"
	ML    FitMethod = "ML"
	NoEst FitMethod = "noest"
)

// FitMaanova builds fitmaanova(<data>, formula=~..., random=~..., ...).
type FitMaanova struct {
	ResultName  string
	Data        string
	FixedTerms  []string
	RandomTerms []string
	Covariates  []string
	Method      FitMethod
	Verbose     bool
}

// NewFitMaanova returns a REML fit of data on the given fixed terms.
func NewFitMaanova(data string, fixedTerms ...string) *FitMaanova {
	return &FitMaanova{
		Data:       data,
		FixedTerms: fixedTerms,
		Method:     REML,
	}
}

// Command implements Builder.
func (b *FitMaanova) Command() string {
	args := []rsyntax.Arg{
		rsyntax.Positional(b.Data),
		rsyntax.Named("formula", rsyntax.Formula(b.FixedTerms)),
	}
	if random := rsyntax.Formula(b.RandomTerms); random != "" {
		args = append(args, rsyntax.Named("random", random))
	}
	if covariate := rsyntax.Formula(b.Covariates); covariate != "" {
		args = append(args, rsyntax.Named("covariate", covariate))
	}
	if b.Method != "" {
		args = append(args, rsyntax.Named("method", rsyntax.String(string(b.Method))))
	}
	args = append(args, rsyntax.Named("verbose", rsyntax.Bool(b.Verbose)))
	return rsyntax.Assign(b.ResultName, rsyntax.Call("fitmaanova", args...))
}

// Validate checks that every term is a usable R name and that random terms
// and covariates are also fixed terms.
func (b *FitMaanova) Validate() error {
	if strings.TrimSpace(b.Data) == "" {
		return errors.New("data object is required")
	}
	if rsyntax.Formula(b.FixedTerms) == "" {
		return errors.New("at least one fixed term is required")
	}
	fixed := map[string]bool{}
	for _, term := range b.FixedTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if !rsyntax.IsValidIdentifier(term) {
			return errors.Errorf("fixed term %q is not a valid R name", term)
		}
		fixed[term] = true
	}
	for _, group := range []struct {
		what  string
		terms []string
	}{{"random term", b.RandomTerms}, {"covariate", b.Covariates}} {
		for _, term := range group.terms {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			if !fixed[term] {
				return errors.Errorf("%s %q must also be a fixed term", group.what, term)
			}
		}
	}
	return nil
}

// TestType selects the hypothesis test matest runs.
type TestType string

// Test types understood by matest.
const (
	FTest TestType = "ftest"
	TTest TestType = "ttest"
)

// ShuffleMethod is how matest permutes data.
type ShuffleMethod string

// Shuffle methods understood by matest.
const (
	ShuffleSample   ShuffleMethod = "sample"
	ShuffleResidual ShuffleMethod = "resid"
)

// Matest builds matest(<data>, <fit>, term="...", ...).
type Matest struct {
	ResultName    string
	Data          string
	Fit           string
	Term          string
	Contrast      string
	Permutations  int
	Critical      decimal.Decimal
	TestType      TestType
	ShuffleMethod ShuffleMethod
	MMEMethod     FitMethod
	// TestMethod selects tabulated and permutation P values for F1 and Fs.
	TestMethod [2]int
	PValuePool bool
	Verbose    bool
}

// NewMatest returns an F test builder with matest's defaults.
func NewMatest(data, fit, term string) *Matest {
	return &Matest{
		Data:          data,
		Fit:           fit,
		Term:          term,
		Permutations:  1000,
		Critical:      decimal.RequireFromString("0.9"),
		TestType:      FTest,
		ShuffleMethod: ShuffleSample,
		MMEMethod:     REML,
		TestMethod:    [2]int{1, 1},
		PValuePool:    true,
	}
}

// Command implements Builder.
func (b *Matest) Command() string {
	args := []rsyntax.Arg{
		rsyntax.Positional(b.Data),
		rsyntax.Positional(b.Fit),
		rsyntax.Named("term", rsyntax.String(b.Term)),
	}
	if strings.TrimSpace(b.Contrast) != "" {
		args = append(args, rsyntax.Named("Contrast", strings.TrimSpace(b.Contrast)))
	}
	args = append(args,
		rsyntax.Named("n.perm", rsyntax.Int(b.Permutations)),
		rsyntax.Named("critical", rsyntax.Decimal(b.Critical)),
	)
	if b.TestType != "" {
		args = append(args, rsyntax.Named("test.type", rsyntax.String(string(b.TestType))))
	}
	if b.ShuffleMethod != "" {
		args = append(args, rsyntax.Named("shuffle.method", rsyntax.String(string(b.ShuffleMethod))))
	}
	if b.MMEMethod != "" {
		args = append(args, rsyntax.Named("MME.method", rsyntax.String(string(b.MMEMethod))))
	}
	args = append(args,
		rsyntax.Named("test.method", rsyntax.IntVector(b.TestMethod[:])),
		rsyntax.Named("pval.pool", rsyntax.Bool(b.PValuePool)),
		rsyntax.Named("verbose", rsyntax.Bool(b.Verbose)),
	)
	return rsyntax.Assign(b.ResultName, rsyntax.Call("matest", args...))
}

// Validate checks the options matest would reject.
func (b *Matest) Validate() error {
	if strings.TrimSpace(b.Data) == "" || strings.TrimSpace(b.Fit) == "" {
		return errors.New("data and fit objects are required")
	}
	if !rsyntax.IsValidIdentifier(b.Term) {
		return errors.Errorf("term %q is not a valid R name", b.Term)
	}
	if b.Permutations < 0 {
		return errors.Errorf("permutation count must not be negative, got %d", b.Permutations)
	}
	if b.Critical.LessThanOrEqual(decimal.Zero) || b.Critical.GreaterThan(decimal.NewFromInt(1)) {
		return errors.Errorf("critical value must be in (0, 1], got %s", b.Critical)
	}
	if b.TestType == TTest && strings.TrimSpace(b.Contrast) == "" {
		return errors.New("a T test needs a contrast matrix")
	}
	return nil
}

// AdjustmentMethod is the FDR procedure used by adjPval.
type AdjustmentMethod string

// Procedures understood by adjPval.
const (
	JSFDR    AdjustmentMethod = "jsFDR"
	Adaptive AdjustmentMethod = "adaptive"
	StepUp   AdjustmentMethod = "stepup"
)

// AdjustPValues builds adjPval(<test>, method=...).
type AdjustPValues struct {
	ResultName string
	Test       string
	Method     AdjustmentMethod
}

// NewAdjustPValues returns a builder which replaces the test object with its
// adjusted version.
func NewAdjustPValues(test string, method AdjustmentMethod) *AdjustPValues {
	return &AdjustPValues{ResultName: test, Test: test, Method: method}
}

// Command implements Builder.
func (b *AdjustPValues) Command() string {
	method := b.Method
	if method == "" {
		method = JSFDR
	}
	return rsyntax.Assign(b.ResultName, rsyntax.Call("adjPval",
		rsyntax.Positional(b.Test),
		rsyntax.Named("method", rsyntax.String(string(method))),
	))
}

// LoadLibrary builds library(<package>).
type LoadLibrary struct {
	Package string
}

// Command implements Builder.
func (b LoadLibrary) Command() string {
	return rsyntax.Call("library", rsyntax.Positional(b.Package))
}

var (
	_ Builder = &ReadMicroarrayData{}
	_ Builder = &AffyReadData{}
	_ Builder = &AffyRMA{}
	_ Builder = &AffyJustRMA{}
	_ Builder = &TransformData{}
	_ Builder = &FitMaanova{}
	_ Builder = &Matest{}
	_ Builder = &AdjustPValues{}
	_ Builder = LoadLibrary{}
)
