package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jmaanova/jmaanova/pkg/commands"
	"github.com/jmaanova/jmaanova/pkg/export"
	"github.com/jmaanova/jmaanova/pkg/maanova"
	"github.com/jmaanova/jmaanova/pkg/results"
	"github.com/jmaanova/jmaanova/pkg/rsession"
	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

// options is one analysis as requested on the command line.
type options struct {
	DataFile        string
	DesignFile      string
	ArrayType       commands.ArrayType
	ProbeIDColumn   int
	IntensityColumn int
	LogTransform    bool

	Name         string
	Formula      []string
	Random       []string
	Term         string
	Permutations int

	FilterStatistic *results.Statistic
	Threshold       float64
	SortStatistic   results.Statistic
	Limit           int
	Output          string
}

// plan holds the builders of one analysis. fit and test are nil when no
// model formula was given.
type plan struct {
	read   *commands.ReadMicroarrayData
	fit    *commands.FitMaanova
	test   *commands.Matest
	adjust *commands.AdjustPValues
}

func newPlan(opts options) (*plan, error) {
	name, err := rsyntax.ToIdentifier(opts.Name)
	if err != nil {
		return nil, err
	}

	read := commands.NewReadMicroarrayData()
	read.ResultName = name
	read.DataFile = commands.File(opts.DataFile)
	read.DesignFile = commands.File(opts.DesignFile)
	read.ArrayType = opts.ArrayType
	read.ProbeIDColumn = opts.ProbeIDColumn
	read.ProbeIDValid = opts.ProbeIDColumn > 0
	read.IntensityColumn = opts.IntensityColumn
	read.LogTransform = opts.LogTransform
	if err := read.Validate(); err != nil {
		return nil, err
	}

	p := &plan{read: read}
	if len(opts.Formula) == 0 {
		return p, nil
	}

	p.fit = commands.NewFitMaanova(name, opts.Formula...)
	p.fit.ResultName = name + ".fit"
	p.fit.RandomTerms = opts.Random
	if err := p.fit.Validate(); err != nil {
		return nil, err
	}

	term := opts.Term
	if term == "" {
		term = opts.Formula[len(opts.Formula)-1]
	}
	p.test = commands.NewMatest(name, p.fit.ResultName, term)
	p.test.ResultName = name + ".test"
	p.test.Permutations = opts.Permutations
	if err := p.test.Validate(); err != nil {
		return nil, err
	}
	p.adjust = commands.NewAdjustPValues(p.test.ResultName, commands.JSFDR)
	return p, nil
}

// statements returns the R statements the plan runs, in order.
func (p *plan) statements() []string {
	statements := []string{p.read.Command()}
	if p.fit != nil {
		statements = append(statements, p.fit.Command(), p.test.Command(), p.adjust.Command())
	}
	return statements
}

// statistics returns the statistics read from the test result.
func (p *plan) statistics() []results.Statistic {
	statistics := []results.Statistic{results.FObserved, results.PTabulated, results.AdjustedPTabulated}
	if p.test.Permutations > 0 {
		statistics = append(statistics, results.PPermutation, results.AdjustedPPermutation)
	}
	return statistics
}

// analyze runs the plan on engine and writes a report to out.
func analyze(engine rsession.Engine, opts options, out io.Writer) error {
	p, err := newPlan(opts)
	if err != nil {
		return err
	}

	expt, err := maanova.ReadExperiment(engine, p.read)
	if err != nil {
		return err
	}
	if err := describe(expt, out); err != nil {
		return err
	}

	ids, err := expt.ProbesetIDs()
	if err != nil {
		return err
	}

	var header []string
	var columns [][]float64
	var statistics []results.Statistic
	if p.fit == nil {
		header, columns, err = arrayColumns(expt)
	} else {
		statistics = p.statistics()
		header, columns, err = testColumns(expt, p, statistics)
	}
	if err != nil {
		return err
	}
	if len(ids) == 0 && len(columns) > 0 {
		ids = make([]string, len(columns[0]))
		for i := range ids {
			ids[i] = fmt.Sprintf("%d", i+1)
		}
	}

	rows, err := results.Extract(ids, columns...)
	if err != nil {
		return err
	}
	rows = filterAndSort(rows, statistics, opts)

	export.RenderTable(out, header, rows, opts.Limit)
	if len(rows) > 0 && len(columns) > 0 {
		if summary, err := results.Summarize(rows, 0); err == nil {
			fmt.Fprintf(out, "%s: n=%d min=%s median=%s mean=%s max=%s\n", header[1], summary.Count,
				export.FormatValue(summary.Min), export.FormatValue(summary.Median),
				export.FormatValue(summary.Mean), export.FormatValue(summary.Max))
		}
	}

	if opts.Output != "" {
		if err := export.WriteFile(opts.Output, header, rows); err != nil {
			return err
		}
		log.Infof("Wrote %d rows to %s", len(rows), opts.Output)
	}
	return nil
}

func describe(expt *maanova.Experiment, out io.Writer) error {
	arrays, err := expt.MicroarrayCount()
	if err != nil {
		return err
	}
	genes, err := expt.GeneCount()
	if err != nil {
		return err
	}
	dyes, err := expt.DyeCount()
	if err != nil {
		return err
	}
	replicates, err := expt.ReplicateCount()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Experiment %s: %d arrays, %d genes, %d dyes, %d replicates\n",
		rsyntax.ToReadable(expt.Name()), arrays, genes, dyes, replicates)
	return nil
}

// arrayColumns reads every intensity column. Two color data has one column
// per dye, named after its array and channel.
func arrayColumns(expt *maanova.Experiment) ([]string, [][]float64, error) {
	arrays, err := expt.MicroarrayCount()
	if err != nil {
		return nil, nil, err
	}
	count, err := expt.DataColumnCount()
	if err != nil {
		return nil, nil, err
	}
	header := []string{"Probeset"}
	columns := make([][]float64, 0, count)
	for column := 1; column <= count; column++ {
		data, err := expt.Data(column)
		if err != nil {
			return nil, nil, err
		}
		header = append(header, columnTitle(column, arrays, count))
		columns = append(columns, data)
	}
	return header, columns, nil
}

func columnTitle(column, arrays, count int) string {
	switch {
	case count == arrays:
		return fmt.Sprintf("Array %d", column)
	case arrays > 0 && count%arrays == 0:
		channels := count / arrays
		return fmt.Sprintf("Array %d channel %d", (column-1)/channels+1, (column-1)%channels+1)
	default:
		return fmt.Sprintf("Column %d", column)
	}
}

func testColumns(expt *maanova.Experiment, p *plan, statistics []results.Statistic) ([]string, [][]float64, error) {
	fit, err := expt.Fit(p.fit)
	if err != nil {
		return nil, nil, err
	}
	test, err := fit.Test(p.test)
	if err != nil {
		return nil, nil, err
	}
	if err := test.AdjustPValues(p.adjust.Method); err != nil {
		return nil, nil, err
	}

	header := []string{"Probeset"}
	columns := make([][]float64, 0, len(statistics))
	for _, statistic := range statistics {
		values, err := test.Statistic(maanova.F1, statistic, 1)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "cannot read %s", statistic)
		}
		header = append(header, statistic.String())
		columns = append(columns, values)
	}
	return header, columns, nil
}

// filterAndSort applies the requested statistic filter and order. Statistics
// which were not read are ignored with a warning.
func filterAndSort(rows []results.ProbesetRow, statistics []results.Statistic, opts options) []results.ProbesetRow {
	column := func(statistic results.Statistic) int {
		for i, s := range statistics {
			if s == statistic {
				return i
			}
		}
		return -1
	}

	if opts.FilterStatistic != nil {
		if c := column(*opts.FilterStatistic); c >= 0 {
			rows = results.Filter(rows, results.Criterion{Column: c, Statistic: *opts.FilterStatistic, Threshold: opts.Threshold})
		} else {
			log.Warnf("Cannot filter on %s, it was not computed", *opts.FilterStatistic)
		}
	}
	if c := column(opts.SortStatistic); c >= 0 {
		rows = results.Sort(rows, c, opts.SortStatistic)
	}
	return rows
}

// dryRun writes the statements of the plan without running them.
func dryRun(opts options, out io.Writer) error {
	p, err := newPlan(opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, strings.Join(p.statements(), "\n")+"\n")
	return err
}

func dataDirectory(dataFile string) string {
	abs, err := filepath.Abs(dataFile)
	if err != nil {
		return filepath.Dir(dataFile)
	}
	return filepath.Dir(abs)
}
