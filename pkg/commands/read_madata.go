package commands

import (
	"github.com/pkg/errors"

	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

// ReadMicroarrayData builds a read.madata call.
//
// read.madata(datafile, designfile, arrayType, header=TRUE, spotflag=FALSE,
//             n.rep=1, avgreps=0, log.trans=FALSE, metarow, metacol, row, col,
//             probeid, intensity)
//
// spotflag, n.rep, avgreps, metarow, metacol, row and col apply to two color
// arrays only.
type ReadMicroarrayData struct {
	ResultName string

	DataFile   FileName
	DesignFile FileName
	ArrayType  ArrayType
	Header     bool

	SpotFlag         bool
	ReplicateCount   int
	ReplicateSummary ReplicateSummaryMethod

	// Meta-grid columns are only emitted when MetaGridValid is set.
	MetaRowColumn int
	MetaColColumn int
	MetaGridValid bool
	RowColumn     int
	ColColumn     int

	// ProbeIDColumn is only emitted when ProbeIDValid is set.
	ProbeIDColumn   int
	ProbeIDValid    bool
	IntensityColumn int
	LogTransform    bool
}

// NewReadMicroarrayData returns a builder with read.madata's GUI defaults.
func NewReadMicroarrayData() *ReadMicroarrayData {
	return &ReadMicroarrayData{
		ArrayType:        OneColor,
		Header:           true,
		ReplicateCount:   1,
		ReplicateSummary: Mean,
	}
}

// Command implements Builder.
func (b *ReadMicroarrayData) Command() string {
	var args []rsyntax.Arg

	if b.DataFile.IsSet() {
		args = append(args, rsyntax.Named("datafile", b.DataFile.Literal()))
	}
	if b.DesignFile.IsSet() {
		args = append(args, rsyntax.Named("designfile", b.DesignFile.Literal()))
	}
	args = append(args,
		rsyntax.Named("arrayType", rsyntax.String(b.ArrayType.Literal())),
		rsyntax.Named("header", rsyntax.Bool(b.Header)),
	)

	if b.ArrayType == TwoColor {
		args = append(args,
			rsyntax.Named("spotflag", rsyntax.Bool(b.SpotFlag)),
			rsyntax.Named("n.rep", rsyntax.Int(b.ReplicateCount)),
		)
		if b.ReplicateCount >= 2 {
			args = append(args, rsyntax.Named("avgreps", b.ReplicateSummary.Literal()))
		}
		if b.MetaGridValid {
			args = append(args,
				rsyntax.Named("metarow", rsyntax.Int(b.MetaRowColumn)),
				rsyntax.Named("metacol", rsyntax.Int(b.MetaColColumn)),
			)
		}
		if b.RowColumn > 0 {
			args = append(args, rsyntax.Named("row", rsyntax.Int(b.RowColumn)))
		}
		if b.ColColumn > 0 {
			args = append(args, rsyntax.Named("col", rsyntax.Int(b.ColColumn)))
		}
	}

	if b.ProbeIDValid {
		args = append(args, rsyntax.Named("probeid", rsyntax.Int(b.ProbeIDColumn)))
	}
	if b.IntensityColumn > 0 {
		args = append(args, rsyntax.Named("intensity", rsyntax.Int(b.IntensityColumn)))
	}
	args = append(args, rsyntax.Named("log.trans", rsyntax.Bool(b.LogTransform)))

	return rsyntax.Assign(b.ResultName, rsyntax.Call("read.madata", args...))
}

// Validate checks the options a dialog would refuse to submit.
func (b *ReadMicroarrayData) Validate() error {
	if !b.DataFile.IsSet() {
		return errors.New("data file is required")
	}
	if !b.DesignFile.IsSet() {
		return errors.New("design file is required")
	}
	if b.IntensityColumn < 1 {
		return errors.Errorf("intensity column must be positive, got %d", b.IntensityColumn)
	}
	if b.ArrayType == TwoColor && b.ReplicateCount < 1 {
		return errors.Errorf("replicate count must be positive, got %d", b.ReplicateCount)
	}

	used := map[int]string{}
	check := func(column int, what string) error {
		if column < 1 {
			return errors.Errorf("%s column must be positive, got %d", what, column)
		}
		if other, ok := used[column]; ok {
			return errors.Errorf("%s column %d is already used as the %s column", what, column, other)
		}
		used[column] = what
		return nil
	}

	if b.ProbeIDValid {
		if err := check(b.ProbeIDColumn, "probe id"); err != nil {
			return err
		}
	}
	if err := check(b.IntensityColumn, "intensity"); err != nil {
		return err
	}
	if b.ArrayType == TwoColor {
		if b.MetaGridValid {
			if err := check(b.MetaRowColumn, "meta row"); err != nil {
				return err
			}
			if err := check(b.MetaColColumn, "meta column"); err != nil {
				return err
			}
		}
		if b.RowColumn > 0 {
			if err := check(b.RowColumn, "row"); err != nil {
				return err
			}
		}
		if b.ColColumn > 0 {
			if err := check(b.ColColumn, "column"); err != nil {
				return err
			}
		}
	}
	return nil
}
