package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jmaanova/jmaanova/pkg/commands"
	"github.com/jmaanova/jmaanova/pkg/conf"
	"github.com/jmaanova/jmaanova/pkg/executor"
	"github.com/jmaanova/jmaanova/pkg/jobs"
	"github.com/jmaanova/jmaanova/pkg/logger"
	"github.com/jmaanova/jmaanova/pkg/prefs"
	"github.com/jmaanova/jmaanova/pkg/results"
	"github.com/jmaanova/jmaanova/pkg/rsession"
	"github.com/jmaanova/jmaanova/pkg/utils/errutil"
)

var (
	// Input.
	dataFlag            = conf.NewFileFlag("data", "Tab delimited microarray data file", "")
	designFlag          = conf.NewFileFlag("design", "Tab delimited design file", "")
	arrayTypeFlag       = conf.NewStringFlag("array_type", "Array type: oneColor or twoColor", "oneColor")
	probeIDColumnFlag   = conf.NewIntFlag("probe_id_column", "Column of probe identifiers; 0 when the data has none", 1)
	intensityColumnFlag = conf.NewIntFlag("intensity_column", "First intensity column", 2)
	logTransformFlag    = conf.NewBoolFlag("log_transform", "Log2 transform intensities while reading", false)
	nameFlag            = conf.NewStringFlag("name", "Name of the experiment", "expt")

	// Model.
	formulaFlag      = conf.NewSliceFlag("formula", "Fixed term of the model. Can be given many times (--formula=Strain --formula=Sample)")
	randomFlag       = conf.NewSliceFlag("random", "Random term of the model; it must also be a fixed term")
	termFlag         = conf.NewStringFlag("term", "Term to test; defaults to the last fixed term", "")
	permutationsFlag = conf.NewIntFlag("permutations", "Number of permutations run by matest", 1000)

	// Report.
	filterStatFlag = conf.NewStringFlag("filter_stat", "Statistic filtered on, e.g. p-tabulated", "")
	thresholdFlag  = conf.NewStringFlag("threshold", "Threshold of the filter statistic", "0.05")
	sortStatFlag   = conf.NewStringFlag("sort_stat", "Statistic the table is ordered by", results.FObserved.String())
	limitFlag      = conf.NewIntFlag("limit", "Rows printed; 0 prints all", 20)
	outputFlag     = conf.NewStringFlag("output", "Write all rows to a .csv, .tsv or .xlsx file", "")
	dryRunFlag     = conf.NewBoolFlag("dry_run", "Print the R statements instead of running them", false)

	prefsFlag  = conf.NewStringFlag("prefs", "Preferences file", prefs.DefaultPath())
	logDirFlag = conf.NewStringFlag("log_dir", "Directory of the log file; empty logs to stderr only", "")
)

func optionsFromFlags() (options, error) {
	arrayType, ok := commands.ParseArrayType(arrayTypeFlag.Value())
	if !ok {
		return options{}, errors.Errorf("unknown array type %q", arrayTypeFlag.Value())
	}
	sortStatistic, ok := results.ParseStatistic(sortStatFlag.Value())
	if !ok {
		return options{}, errors.Errorf("unknown statistic %q", sortStatFlag.Value())
	}
	opts := options{
		DataFile:        dataFlag.Value(),
		DesignFile:      designFlag.Value(),
		ArrayType:       arrayType,
		ProbeIDColumn:   probeIDColumnFlag.Value(),
		IntensityColumn: intensityColumnFlag.Value(),
		LogTransform:    logTransformFlag.Value(),
		Name:            nameFlag.Value(),
		Formula:         formulaFlag.Value(),
		Random:          randomFlag.Value(),
		Term:            termFlag.Value(),
		Permutations:    permutationsFlag.Value(),
		SortStatistic:   sortStatistic,
		Limit:           limitFlag.Value(),
		Output:          outputFlag.Value(),
	}
	if filterStatFlag.Value() != "" {
		statistic, ok := results.ParseStatistic(filterStatFlag.Value())
		if !ok {
			return options{}, errors.Errorf("unknown statistic %q", filterStatFlag.Value())
		}
		threshold, err := strconv.ParseFloat(thresholdFlag.Value(), 64)
		if err != nil {
			return options{}, errors.Wrapf(err, "invalid threshold %q", thresholdFlag.Value())
		}
		opts.FilterStatistic = &statistic
		opts.Threshold = threshold
	}
	return opts, nil
}

func main() {
	// .env is optional.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "cannot read .env: %v\n", err)
	}

	conf.SetAppName("jmaanova")
	conf.SetHelp(`jmaanova reads a microarray experiment into R, fits a MAANOVA model and tests one of its terms.
The resulting statistics are printed as a table and can be exported to csv or xlsx.`)

	// R flags are registered before parsing and read again after it.
	rsession.DefaultConfig()
	errutil.Check(conf.ParseFlags())
	config := rsession.DefaultConfig()

	logFile, err := logger.Initialize(conf.AppName(), logDirFlag.Value())
	errutil.Check(err)
	defer logFile.Close()

	opts, err := optionsFromFlags()
	errutil.Check(err)

	if dryRunFlag.Value() {
		errutil.Check(dryRun(opts, os.Stdout))
		return
	}

	preferences, err := prefs.Load(prefsFlag.Value())
	if err != nil {
		log.Warnf("Ignoring preferences: %v", err)
	}

	exec, err := executor.CreateExecutor(config.Host, config.SSHPort)
	errutil.CheckWithContext(err, "cannot create executor for R")

	session, err := rsession.Start(exec, config)
	errutil.CheckWithContext(err, "cannot start R")
	defer session.Close()

	job := jobs.Run("analysis of "+opts.DataFile, func() error {
		return analyze(session, opts, os.Stdout)
	})
	job.OnComplete(func(err error) {
		if err != nil || preferences == nil {
			return
		}
		preferences.SetStartingDirectory(dataDirectory(opts.DataFile))
		preferences.AddRecentFile(opts.DataFile)
		if err := preferences.Save(); err != nil {
			log.Warnf("Cannot save preferences: %v", err)
		}
	})
	job.Wait(0)
	log.Debugf("%s finished", job)

	if err := job.Err(); err != nil {
		session.Close()
		errutil.CheckWithContext(err, "analysis failed")
	}
}
