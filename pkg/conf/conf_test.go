package conf

import (
	"io/ioutil"
	"os"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/sirupsen/logrus"
)

const testAppName = "testAppName"

var customFlag = NewStringFlag("custom_arg", "help", "default")

func clearEnv() {
	logLevelFlag.clear()
	customFlag.clear()
}

func TestConf(t *testing.T) {
	Convey("While using Conf pkg", t, func() {
		clearEnv()
		defer clearEnv()

		SetAppName(testAppName)

		Convey("Name and help should match to specified one", func() {
			So(AppName(), ShouldEqual, testAppName)

			helpFile, err := ioutil.TempFile("", "help")
			So(err, ShouldBeNil)
			defer os.Remove(helpFile.Name())
			_, err = helpFile.WriteString("Runs maanova.")
			So(err, ShouldBeNil)
			helpFile.Close()

			SetHelpPath(helpFile.Name())
			So(app.Help, ShouldEqual, "Runs maanova.")

			SetHelp("Other help.")
			So(app.Help, ShouldEqual, "Other help.")
		})

		Convey("Log level can be fetched", func() {
			So(LogLevel(), ShouldEqual, logrus.ErrorLevel)
		})

		Convey("Log level can be fetched from env", func() {
			os.Setenv(logLevelFlag.envName(), "debug")

			err := ParseEnv()
			So(err, ShouldBeNil)
			So(LogLevel(), ShouldEqual, logrus.DebugLevel)
		})

		Convey("Unknown log level falls back to the default", func() {
			os.Setenv(logLevelFlag.envName(), "loud")

			err := ParseEnv()
			So(err, ShouldBeNil)
			So(LogLevel(), ShouldEqual, logrus.ErrorLevel)
		})

		Convey("Command line arguments take precedence over env", func() {
			os.Setenv(customFlag.envName(), "fromEnv")

			err := ParseArgs([]string{"--custom_arg", "fromArgs"})
			So(err, ShouldBeNil)
			So(customFlag.Value(), ShouldEqual, "fromArgs")
		})

		Convey("Unknown arguments are rejected", func() {
			err := ParseArgs([]string{"--no_such_flag"})
			So(err, ShouldNotBeNil)
		})

		Convey("When some custom argument is defined", func() {
			Convey("When we not defined any environment variable we should have default value after parse", func() {
				err := ParseEnv()
				So(err, ShouldBeNil)
				So(customFlag.Value(), ShouldEqual, customFlag.defaultValue)
			})

			Convey("When we define custom environment variable we should have custom value after parse", func() {
				os.Setenv(customFlag.envName(), "customContent")

				err := ParseEnv()
				So(err, ShouldBeNil)
				So(customFlag.Value(), ShouldEqual, "customContent")
			})
		})

		Convey("Dumped config can be sourced by a shell", func() {
			os.Setenv(customFlag.envName(), "dumped")
			So(ParseEnv(), ShouldBeNil)

			dump := DumpConfig()
			So(dump, ShouldStartWith, "# Export all values.\nset -o allexport\n")
			So(dump, ShouldContainSubstring, "\n# help\n# Default: default\nMAANOVA_CUSTOM_ARG=dumped\n")
			So(strings.TrimSpace(dump), ShouldEndWith, "set +o allexport")

			overridden := DumpConfigMap(map[string]string{"custom_arg": "other"})
			So(overridden, ShouldContainSubstring, "MAANOVA_CUSTOM_ARG=other\n")

			So(GetFlags()["custom_arg"], ShouldEqual, "dumped")
		})
	})
}
