package maanova

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"

	"github.com/jmaanova/jmaanova/pkg/commands"
	"github.com/jmaanova/jmaanova/pkg/results"
	"github.com/jmaanova/jmaanova/pkg/rsession"
	"github.com/jmaanova/jmaanova/pkg/rsession/mocks"
	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

const genelistsExist = `exists("expt.genelists", envir=globalenv(), inherits=FALSE)`

// childrenOf matches the statement listing class objects tagged with parent.
func childrenOf(parent, class string) interface{} {
	return mock.MatchedBy(func(statement string) bool {
		return strings.HasPrefix(statement, "Filter(") &&
			strings.Contains(statement, `"jmaanova.parent"), "`+parent+`")`) &&
			strings.Contains(statement, `inherits(o, "`+class+`")`)
	})
}

func TestRObject(t *testing.T) {
	Convey("While using object handles", t, func() {
		engine := new(mocks.Engine)

		Convey("Top level names are checked with exists and removed with rm", func() {
			object := NewRObject(engine, "expt")
			engine.On("Eval", `exists("expt", envir=globalenv(), inherits=FALSE)`).Return(rsession.NewLogicals(true), nil)
			engine.On("VoidEval", `rm(list="expt", envir=globalenv())`).Return(nil)

			exists, err := object.Exists()
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
			So(object.Delete(), ShouldBeNil)
			engine.AssertExpectations(t)
		})

		Convey("Components are checked for NULL and set to NULL on delete", func() {
			object := NewRObject(engine, "expt$design")
			engine.On("Eval", `tryCatch(!is.null(expt$design), error=function(e) FALSE)`).Return(rsession.NewLogicals(false), nil)
			engine.On("VoidEval", `expt$design <- NULL`).Return(nil)

			exists, err := object.Exists()
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
			So(object.Delete(), ShouldBeNil)
			engine.AssertExpectations(t)
		})

		Convey("Class reads the first class name", func() {
			engine.On("Eval", `class(expt)[1]`).Return(rsession.NewStrings("madata"), nil)
			class, err := NewRObject(engine, "expt").Class()
			So(err, ShouldBeNil)
			So(class, ShouldEqual, "madata")
		})

		Convey("Interpreter errors are returned", func() {
			engine.On("VoidEval", `rm(list="expt", envir=globalenv())`).Return(&rsession.EvalError{Message: "locked"})
			err := NewRObject(engine, "expt").Delete()
			So(rsession.IsEvalError(err), ShouldBeTrue)
		})
	})
}

func TestExperiment(t *testing.T) {
	Convey("While reading an experiment", t, func() {
		engine := new(mocks.Engine)
		expt := NewExperiment(engine, "expt")

		Convey("Counts are read as integers", func() {
			engine.On("Eval", "as.integer(expt$n.array)").Return(rsession.NewInts(6), nil)
			engine.On("Eval", "as.integer(expt$n.gene)").Return(rsession.NewInts(1000), nil)
			engine.On("Eval", "as.integer(expt$n.rep)").Return(rsession.NewInts(1), nil)

			arrays, err := expt.MicroarrayCount()
			So(err, ShouldBeNil)
			So(arrays, ShouldEqual, 6)
			genes, err := expt.GeneCount()
			So(err, ShouldBeNil)
			So(genes, ShouldEqual, 1000)
			replicates, err := expt.ReplicateCount()
			So(err, ShouldBeNil)
			So(replicates, ShouldEqual, 1)
		})

		Convey("Dye count reads an integer", func() {
			engine.On("Eval", "expt$n.dye").Return(rsession.NewInts(2), nil)
			dyes, err := expt.DyeCount()
			So(err, ShouldBeNil)
			So(dyes, ShouldEqual, 2)
		})

		Convey("Dye count falls back to a truncated double", func() {
			engine.On("Eval", "expt$n.dye").Return(rsession.NewDoubles(2), nil)
			dyes, err := expt.DyeCount()
			So(err, ShouldBeNil)
			So(dyes, ShouldEqual, 2)
		})

		Convey("Dye count of an integer zero stays zero", func() {
			engine.On("Eval", "expt$n.dye").Return(rsession.NewInts(0), nil)
			dyes, err := expt.DyeCount()
			So(err, ShouldBeNil)
			So(dyes, ShouldEqual, 0)
		})

		Convey("Probeset ids and data columns are read", func() {
			engine.On("Eval", "expt$probeid").Return(rsession.NewInts(101, 102), nil)
			engine.On("Eval", "expt$data[, 2]").Return(rsession.NewDoubles(7.5, 8.25), nil)

			ids, err := expt.ProbesetIDs()
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []string{"101", "102"})

			data, err := expt.Data(2)
			So(err, ShouldBeNil)
			So(data, ShouldResemble, []float64{7.5, 8.25})

			_, err = expt.Data(0)
			So(err, ShouldNotBeNil)
		})

		Convey("Data columns are counted over every dye", func() {
			engine.On("Eval", "as.integer(NCOL(expt$data))").Return(rsession.NewInts(12), nil)
			columns, err := expt.DataColumnCount()
			So(err, ShouldBeNil)
			So(columns, ShouldEqual, 12)
		})

		Convey("Design columns are read as strings", func() {
			engine.On("Eval", "colnames(expt$design)").Return(rsession.NewStrings("Array", "Dye", "Sample"), nil)
			engine.On("Eval", `as.character(expt$design[, "Dye"])`).Return(rsession.NewStrings("1", "2"), nil)

			design := expt.Design()
			So(design.Accessor(), ShouldEqual, "expt$design")
			factors, err := design.Factors()
			So(err, ShouldBeNil)
			So(factors, ShouldResemble, []string{"Array", "Dye", "Sample"})
			column, err := design.Column("Dye")
			So(err, ShouldBeNil)
			So(column, ShouldResemble, []string{"1", "2"})
		})
	})

	Convey("While creating an experiment", t, func() {
		engine := new(mocks.Engine)
		builder := commands.NewReadMicroarrayData()
		builder.DataFile = commands.File("/d/e.txt")
		builder.DesignFile = commands.File("/d/f.txt")
		builder.ProbeIDColumn = 1
		builder.ProbeIDValid = true
		builder.IntensityColumn = 2

		Convey("A readable name is converted to an R name", func() {
			builder.ResultName = "kidney data"
			engine.On("VoidEval", mock.MatchedBy(func(s string) bool {
				return strings.HasPrefix(s, "kidney.data <- read.madata(")
			})).Return(nil)

			expt, err := ReadExperiment(engine, builder)
			So(err, ShouldBeNil)
			So(expt.Name(), ShouldEqual, "kidney.data")
			So(builder.ResultName, ShouldEqual, "kidney data")
			engine.AssertExpectations(t)
		})

		Convey("An invalid name is refused before anything is evaluated", func() {
			builder.ResultName = "1st"
			_, err := ReadExperiment(engine, builder)
			So(err, ShouldNotBeNil)
			_, ok := err.(*rsyntax.SyntaxError)
			So(ok, ShouldBeTrue)
			engine.AssertNotCalled(t, "VoidEval", mock.Anything)
		})

		Convey("Interpreter errors are returned", func() {
			builder.ResultName = "expt"
			engine.On("VoidEval", mock.Anything).Return(&rsession.EvalError{Message: "cannot open file"})
			_, err := ReadExperiment(engine, builder)
			So(rsession.IsEvalError(err), ShouldBeTrue)
		})
	})
}

func TestGeneLists(t *testing.T) {
	Convey("While using gene lists", t, func() {
		engine := new(mocks.Engine)
		lists := NewExperiment(engine, "expt").GeneLists()
		getUp := `if (` + genelistsExist + `) expt.genelists[["up"]] else NULL`
		create := `if (!` + genelistsExist + `) expt.genelists <- list()`

		Convey("Names are empty without the collection", func() {
			engine.On("Eval", `if (`+genelistsExist+`) names(expt.genelists) else character(0)`).Return(rsession.NewStrings(), nil)
			names, err := lists.Names()
			So(err, ShouldBeNil)
			So(names, ShouldBeEmpty)
		})

		Convey("Getting an unknown list fails", func() {
			engine.On("Eval", getUp).Return(rsession.NullValue(), nil)
			_, err := lists.Get("up")
			So(errors.Cause(err), ShouldEqual, ErrGeneListNotFound)
		})

		Convey("Adding to an unknown list creates it without duplicates", func() {
			engine.On("Eval", getUp).Return(rsession.NullValue(), nil)
			engine.On("VoidEval", create).Return(nil)
			engine.On("VoidEval", `expt.genelists[["up"]] <- c("g1", "g2")`).Return(nil)

			So(lists.Add("up", []string{"g1", "g2", "g1"}), ShouldBeNil)
			engine.AssertExpectations(t)
		})

		Convey("Adding to an existing list keeps its order", func() {
			engine.On("Eval", getUp).Return(rsession.NewStrings("g3", "g1"), nil)
			engine.On("VoidEval", create).Return(nil)
			engine.On("VoidEval", `expt.genelists[["up"]] <- c("g3", "g1", "g2")`).Return(nil)

			So(lists.Add("up", []string{"g1", "g2"}), ShouldBeNil)
			engine.AssertExpectations(t)
		})

		Convey("Removing rewrites the remaining ids", func() {
			engine.On("Eval", getUp).Return(rsession.NewStrings("g1", "g2", "g3"), nil)
			engine.On("VoidEval", create).Return(nil)
			engine.On("VoidEval", `expt.genelists[["up"]] <- c("g1", "g3")`).Return(nil)

			So(lists.Remove("up", []string{"g2", "g9"}), ShouldBeNil)
			engine.AssertExpectations(t)
		})

		Convey("Removing everything leaves an empty list", func() {
			engine.On("Eval", getUp).Return(rsession.NewStrings("g1"), nil)
			engine.On("VoidEval", create).Return(nil)
			engine.On("VoidEval", `expt.genelists[["up"]] <- character(0)`).Return(nil)

			So(lists.Remove("up", []string{"g1"}), ShouldBeNil)
			engine.AssertExpectations(t)
		})

		Convey("Deleting one list or all of them", func() {
			engine.On("VoidEval", `if (`+genelistsExist+`) expt.genelists[["up"]] <- NULL`).Return(nil)
			engine.On("VoidEval", `if (`+genelistsExist+`) rm(list="expt.genelists", envir=globalenv())`).Return(nil)

			So(lists.Delete("up"), ShouldBeNil)
			So(lists.DeleteAll(), ShouldBeNil)
			engine.AssertExpectations(t)
		})
	})
}

func TestFitAndTest(t *testing.T) {
	Convey("While fitting and testing", t, func() {
		engine := new(mocks.Engine)
		expt := NewExperiment(engine, "expt")

		Convey("Fit runs fitmaanova on the experiment and tags the result", func() {
			builder := commands.NewFitMaanova("ignored", "Dye", "Sample")
			builder.ResultName = "fit1"
			engine.On("VoidEval", `fit1 <- fitmaanova(expt, formula=~Dye+Sample, method="REML", verbose=FALSE)`).Return(nil)
			engine.On("VoidEval", `attr(fit1, "jmaanova.parent") <- "expt"`).Return(nil)
			engine.On("VoidEval", `attr(fit1, "jmaanova.terms") <- c("Dye", "Sample")`).Return(nil)

			fit, err := expt.Fit(builder)
			So(err, ShouldBeNil)
			So(fit.Name(), ShouldEqual, "fit1")
			So(fit.Experiment(), ShouldEqual, "expt")
			engine.AssertExpectations(t)
		})

		Convey("Fit with a random term that is not fixed is refused", func() {
			builder := commands.NewFitMaanova("expt", "Dye")
			builder.ResultName = "fit1"
			builder.RandomTerms = []string{"Array"}
			_, err := expt.Fit(builder)
			So(err, ShouldNotBeNil)
			engine.AssertNotCalled(t, "VoidEval", mock.Anything)
		})

		Convey("Fits and their estimates are listed", func() {
			engine.On("Eval", childrenOf("expt", "maanova")).Return(rsession.NewStrings("fit1"), nil)
			engine.On("Eval", `attr(fit1, "jmaanova.terms")`).Return(rsession.NewStrings("Dye", "Sample"), nil)
			engine.On("Eval", "colnames(fit1$Sample)").Return(rsession.NewStrings("A", "B"), nil)
			engine.On("Eval", "fit1$Sample[, 1]").Return(rsession.NewDoubles(0.5, 1), nil)
			engine.On("Eval", "fit1$Sample[, 2]").Return(rsession.NewDoubles(-0.5, 0), nil)

			fits, err := expt.FitResults()
			So(err, ShouldBeNil)
			So(fits, ShouldHaveLength, 1)

			terms, err := fits[0].Terms()
			So(err, ShouldBeNil)
			So(terms, ShouldResemble, []string{"Dye", "Sample"})

			estimates, err := fits[0].Estimates("Sample")
			So(err, ShouldBeNil)
			So(estimates, ShouldResemble, [][]float64{{0.5, 1}, {-0.5, 0}})
		})

		Convey("Test runs matest on the fit and its experiment", func() {
			fit := newFitResult(engine, "fit1", "expt")
			builder := commands.NewMatest("x", "y", "Sample")
			builder.ResultName = "test1"
			builder.Permutations = 100
			engine.On("VoidEval", mock.MatchedBy(func(s string) bool {
				return strings.HasPrefix(s, `test1 <- matest(expt, fit1, term="Sample", n.perm=100, `)
			})).Return(nil)
			engine.On("VoidEval", `attr(test1, "jmaanova.parent") <- "fit1"`).Return(nil)

			test, err := fit.Test(builder)
			So(err, ShouldBeNil)
			So(test.Name(), ShouldEqual, "test1")
			So(test.Parent(), ShouldEqual, "fit1")
			engine.AssertExpectations(t)
		})

		Convey("Test statistics are read per column", func() {
			test := newTestResult(engine, "test1", "fit1")
			engine.On("Eval", "as.matrix(test1$F1$Ptab)[, 1]").Return(rsession.NewDoubles(0.01, 0.2), nil)
			engine.On("Eval", "as.integer(NCOL(test1$Fs$Fobs))").Return(rsession.NewInts(2), nil)

			values, err := test.Statistic(F1, results.PTabulated, 1)
			So(err, ShouldBeNil)
			So(values, ShouldResemble, []float64{0.01, 0.2})

			columns, err := test.ColumnCount(Fs)
			So(err, ShouldBeNil)
			So(columns, ShouldEqual, 2)

			_, err = test.Statistic(F1, results.FoldChange, 1)
			So(err, ShouldNotBeNil)
			_, err = test.Statistic("F2", results.PTabulated, 1)
			So(err, ShouldNotBeNil)
			_, err = test.Statistic(F1, results.PTabulated, 0)
			So(err, ShouldNotBeNil)
		})

		Convey("Fold change is signed and symmetric", func() {
			test := newTestResult(engine, "test1", "fit1")
			engine.On("Eval", `fit1$Sample[, "A"]`).Return(rsession.NewDoubles(1, -1, 0.5), nil)
			engine.On("Eval", `fit1$Sample[, "B"]`).Return(rsession.NewDoubles(0, 0, 0.5), nil)

			changes, err := test.FoldChange("Sample", "A", "B")
			So(err, ShouldBeNil)
			So(changes, ShouldResemble, []float64{2, -2, 1})
		})

		Convey("Adjusting P values keeps the parent link", func() {
			test := newTestResult(engine, "test1", "fit1")
			engine.On("VoidEval", `test1 <- adjPval(test1, method="adaptive")`).Return(nil)
			engine.On("VoidEval", `attr(test1, "jmaanova.parent") <- "fit1"`).Return(nil)

			So(test.AdjustPValues(commands.Adaptive), ShouldBeNil)
			engine.AssertExpectations(t)
		})
	})
}

func TestCascadeDelete(t *testing.T) {
	Convey("Deleting an experiment", t, func() {
		engine := new(mocks.Engine)
		var deleted []string
		record := func(args mock.Arguments) {
			deleted = append(deleted, args.String(0))
		}

		deleteGeneLists := `if (` + genelistsExist + `) rm(list="expt.genelists", envir=globalenv())`
		engine.On("VoidEval", deleteGeneLists).Return(nil).Run(record)
		engine.On("Eval", childrenOf("expt", "matest")).Return(rsession.NewStrings("direct"), nil)
		engine.On("Eval", childrenOf("expt", "maanova")).Return(rsession.NewStrings("fit1", "fit2"), nil)
		engine.On("Eval", childrenOf("fit1", "matest")).Return(rsession.NewStrings("t1", "t2"), nil)
		engine.On("Eval", childrenOf("fit2", "matest")).Return(rsession.NewStrings(), nil)
		for _, name := range []string{"direct", "t1", "t2", "fit2", "expt"} {
			engine.On("VoidEval", `rm(list="`+name+`", envir=globalenv())`).Return(nil).Run(record)
		}

		Convey("Removes gene lists, tests and fits before the experiment", func() {
			engine.On("VoidEval", `rm(list="fit1", envir=globalenv())`).Return(nil).Run(record)

			So(NewExperiment(engine, "expt").Delete(), ShouldBeNil)
			So(deleted, ShouldResemble, []string{
				deleteGeneLists,
				`rm(list="direct", envir=globalenv())`,
				`rm(list="t1", envir=globalenv())`,
				`rm(list="t2", envir=globalenv())`,
				`rm(list="fit1", envir=globalenv())`,
				`rm(list="fit2", envir=globalenv())`,
				`rm(list="expt", envir=globalenv())`,
			})
		})

		Convey("Stops at the first failure without undoing earlier deletions", func() {
			engine.On("VoidEval", `rm(list="fit1", envir=globalenv())`).Return(&rsession.EvalError{Message: "locked"})

			err := NewExperiment(engine, "expt").Delete()
			So(rsession.IsEvalError(err), ShouldBeTrue)
			So(deleted, ShouldResemble, []string{
				deleteGeneLists,
				`rm(list="direct", envir=globalenv())`,
				`rm(list="t1", envir=globalenv())`,
				`rm(list="t2", envir=globalenv())`,
			})
			engine.AssertNotCalled(t, "VoidEval", `rm(list="expt", envir=globalenv())`)
		})
	})
}
