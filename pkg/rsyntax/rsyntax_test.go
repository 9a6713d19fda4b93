package rsyntax

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLiterals(t *testing.T) {
	Convey("When rendering literals", t, func() {
		Convey("Strings should be quoted and escaped", func() {
			So(String(`/d/e.txt`), ShouldEqual, `"/d/e.txt"`)
			So(String(`C:\data "x"`), ShouldEqual, `"C:\\data \"x\""`)
			So(String("a\nb\tc"), ShouldEqual, `"a\nb\tc"`)
		})

		Convey("Booleans should map to TRUE and FALSE", func() {
			So(Bool(true), ShouldEqual, "TRUE")
			So(Bool(false), ShouldEqual, "FALSE")
		})

		Convey("Doubles should use the shortest exact form", func() {
			So(Float(0.05), ShouldEqual, "0.05")
			So(Float(2), ShouldEqual, "2")
			So(Float(math.NaN()), ShouldEqual, "NaN")
			So(Float(math.Inf(1)), ShouldEqual, "Inf")
			So(Float(math.Inf(-1)), ShouldEqual, "-Inf")
		})

		Convey("Decimals should keep the entered value", func() {
			So(Decimal(decimal.RequireFromString("0.90")), ShouldEqual, "0.9")
		})

		Convey("Vectors should use c() and typed empty vectors", func() {
			So(StringVector([]string{"a", "b"}), ShouldEqual, `c("a", "b")`)
			So(IntVector([]int{1, 1}), ShouldEqual, "c(1, 1)")
			So(FloatVector([]float64{0.5}), ShouldEqual, "c(0.5)")
			So(StringVector(nil), ShouldEqual, "character(0)")
			So(IntVector(nil), ShouldEqual, "integer(0)")
			So(FloatVector(nil), ShouldEqual, "numeric(0)")
		})
	})
}

func TestCalls(t *testing.T) {
	Convey("When rendering calls", t, func() {
		call := Call("read.madata", Named("datafile", String("a.txt")), Positional("x"))
		So(call, ShouldEqual, `read.madata(datafile="a.txt", x)`)
		So(Call("ls"), ShouldEqual, "ls()")

		Convey("Assign should wrap only when the name is not blank", func() {
			So(Assign("", call), ShouldEqual, call)
			So(Assign("   ", call), ShouldEqual, call)
			So(Assign("  expt1 ", call), ShouldEqual, "expt1 <- "+call)
		})

		Convey("Member should quote non syntactic components", func() {
			So(Member("expt1", "n.array"), ShouldEqual, "expt1$n.array")
			So(Member("expt1.genelists", "my list"), ShouldEqual, "expt1.genelists$`my list`")
			So(Element("x", `a"b`), ShouldEqual, `x[["a\"b"]]`)
		})

		Convey("Formula should join non blank terms", func() {
			So(Formula([]string{"Dye", " ", "Sample"}), ShouldEqual, "~Dye+Sample")
			So(Formula(nil), ShouldEqual, "")
		})
	})
}

func TestIdentifiers(t *testing.T) {
	Convey("When converting readable names", t, func() {
		valid := map[string]string{
			"expt1":         "expt1",
			"  my  data  ":  "my.data",
			".hidden":       ".hidden",
			"fit_1.results": "fit_1.results",
			"Liver\tTest 2": "Liver.Test.2",
		}
		for readable, expected := range valid {
			name, err := ToIdentifier(readable)
			So(err, ShouldBeNil)
			So(name, ShouldEqual, expected)
			So(IsValidIdentifier(name), ShouldBeTrue)
		}

		invalid := []string{"", "   ", "1expt", "_x", ".2x", "a-b", "TRUE", "function", "..3", "déjà"}
		for _, readable := range invalid {
			_, err := ToIdentifier(readable)
			So(err, ShouldNotBeNil)
			_, ok := err.(*SyntaxError)
			So(ok, ShouldBeTrue)
		}

		Convey("Readable form should replace dots with spaces", func() {
			So(ToReadable("my.data"), ShouldEqual, "my data")
		})
	})
}
