package commands

import (
	"github.com/pkg/errors"

	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

// affyFiles is the CEL file selection shared by the Affymetrix builders.
type affyFiles struct {
	FileNames  []string
	Compressed bool
}

func (f affyFiles) args() []rsyntax.Arg {
	args := []rsyntax.Arg{rsyntax.Named("filenames", fileVector(f.FileNames))}
	if f.Compressed {
		args = append(args, rsyntax.Named("compress", rsyntax.Bool(true)))
	}
	return args
}

func (f affyFiles) validate() error {
	if len(f.FileNames) == 0 {
		return errors.New("at least one CEL file is required")
	}
	for i, name := range f.FileNames {
		if name == "" {
			return errors.Errorf("CEL file %d has an empty name", i+1)
		}
	}
	return nil
}

// AffyReadData builds ReadAffy(filenames=c(...)).
type AffyReadData struct {
	ResultName string
	affyFiles
}

// NewAffyReadData returns a builder for the given CEL files.
func NewAffyReadData(fileNames ...string) *AffyReadData {
	return &AffyReadData{affyFiles: affyFiles{FileNames: fileNames}}
}

// Command implements Builder.
func (b *AffyReadData) Command() string {
	return rsyntax.Assign(b.ResultName, b.call())
}

func (b *AffyReadData) call() string {
	return rsyntax.Call("ReadAffy", b.args()...)
}

// Validate requires at least one non empty file name.
func (b *AffyReadData) Validate() error {
	return b.validate()
}

// AffyRMA reads CEL files with ReadAffy and summarizes them with rma.
type AffyRMA struct {
	ResultName string
	affyFiles
	Background bool
	Normalize  bool
}

// NewAffyRMA returns a builder with background correction and quantile
// normalization switched on.
func NewAffyRMA(fileNames ...string) *AffyRMA {
	return &AffyRMA{
		affyFiles:  affyFiles{FileNames: fileNames},
		Background: true,
		Normalize:  true,
	}
}

// Command implements Builder.
func (b *AffyRMA) Command() string {
	read := &AffyReadData{affyFiles: b.affyFiles}
	return rsyntax.Assign(b.ResultName, rsyntax.Call("rma",
		rsyntax.Positional(read.call()),
		rsyntax.Named("background", rsyntax.Bool(b.Background)),
		rsyntax.Named("normalize", rsyntax.Bool(b.Normalize)),
	))
}

// Validate requires at least one non empty file name.
func (b *AffyRMA) Validate() error {
	return b.validate()
}

// AffyJustRMA builds justRMA, which reads and summarizes without keeping
// the probe level AffyBatch.
type AffyJustRMA struct {
	ResultName string
	affyFiles
	Background bool
	Normalize  bool
}

// NewAffyJustRMA returns a builder with background correction and quantile
// normalization switched on.
func NewAffyJustRMA(fileNames ...string) *AffyJustRMA {
	return &AffyJustRMA{
		affyFiles:  affyFiles{FileNames: fileNames},
		Background: true,
		Normalize:  true,
	}
}

// Command implements Builder.
func (b *AffyJustRMA) Command() string {
	args := append(b.args(),
		rsyntax.Named("background", rsyntax.Bool(b.Background)),
		rsyntax.Named("normalize", rsyntax.Bool(b.Normalize)),
	)
	return rsyntax.Assign(b.ResultName, rsyntax.Call("justRMA", args...))
}

// Validate requires at least one non empty file name.
func (b *AffyJustRMA) Validate() error {
	return b.validate()
}
