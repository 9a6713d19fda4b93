package jobs

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestJobs(t *testing.T) {
	Convey("While running jobs", t, func() {
		Convey("A successful job ends with no error", func() {
			release := make(chan struct{})
			handle := Run("fit", func() error {
				<-release
				return nil
			})

			So(handle.Status(), ShouldEqual, RUNNING)
			So(handle.Wait(10*time.Millisecond), ShouldBeFalse)

			close(release)
			So(handle.Wait(time.Second), ShouldBeTrue)
			So(handle.Status(), ShouldEqual, SUCCEEDED)
			So(handle.Err(), ShouldBeNil)
			So(handle.Name(), ShouldEqual, "fit")
			So(handle.String(), ShouldEqual, `job "fit" (succeeded)`)
		})

		Convey("A failing job keeps its error", func() {
			handle := Run("test", func() error {
				return errors.New("matest failed")
			})

			<-handle.Done()
			So(handle.Status(), ShouldEqual, FAILED)
			So(handle.Err(), ShouldNotBeNil)
			So(handle.Err().Error(), ShouldEqual, "matest failed")
		})

		Convey("A panicking job fails instead of crashing", func() {
			handle := Run("broken", func() error {
				panic("index out of range")
			})

			So(handle.Wait(0), ShouldBeTrue)
			So(handle.Status(), ShouldEqual, FAILED)
			So(handle.Err().Error(), ShouldContainSubstring, "index out of range")
		})

		Convey("Callbacks get the job's error before and after it ends", func() {
			release := make(chan struct{})
			handle := Run("read", func() error {
				<-release
				return errors.New("no file")
			})

			early := make(chan error, 1)
			handle.OnComplete(func(err error) { early <- err })
			close(release)

			var earlyErr error
			select {
			case earlyErr = <-early:
			case <-time.After(time.Second):
			}
			So(earlyErr, ShouldNotBeNil)

			handle.Wait(0)
			var lateErr error
			handle.OnComplete(func(err error) { lateErr = err })
			So(lateErr, ShouldEqual, handle.Err())
		})
	})
}
