package conf

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/alecthomas/kingpin.v2"
)

func TestStringListVar(t *testing.T) {
	Convey("While using the string list parser", t, func() {
		list := &StringListVar{}

		Convey("It should implement kingpin value interfaces", func() {
			So(list, ShouldImplement, (*kingpin.Value)(nil))
			So(list, ShouldImplement, (*kingpin.Getter)(nil))
			So(list.IsCumulative(), ShouldBeTrue)
		})

		Convey("When parsing inputs it should append new items only", func() {
			So(list.Set("A"), ShouldBeNil)
			So(list.Get(), ShouldResemble, []string{"A"})

			So(list.Set("B, C"), ShouldBeNil)
			So(list.Get(), ShouldResemble, []string{"A", "B", "C"})

			So(list.Set("C,,A,D"), ShouldBeNil)
			So(list.Get(), ShouldResemble, []string{"A", "B", "C", "D"})

			So(list.String(), ShouldEqual, "A,B,C,D")
		})
	})
}
