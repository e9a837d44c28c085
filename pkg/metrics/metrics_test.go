package metrics

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSweep(t *testing.T) {
	Convey("With sweep metrics writing to a textfile", t, func() {
		dir, err := ioutil.TempDir("", "metrics")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)
		path := filepath.Join(dir, "sweep.prom")

		sweep := NewSweep("join", path)

		So(sweep.Planned(12), ShouldBeNil)
		So(sweep.Built(), ShouldBeNil)
		So(sweep.Ran(StatusSucceeded, 2*time.Second, 5), ShouldBeNil)
		So(sweep.Ran(StatusFailed, time.Second, 0), ShouldBeNil)

		Convey("Counters reflect the calls", func() {
			So(testutil.ToFloat64(sweep.planned), ShouldEqual, 12)
			So(testutil.ToFloat64(sweep.builds), ShouldEqual, 1)
			So(testutil.ToFloat64(sweep.records), ShouldEqual, 5)
			So(testutil.ToFloat64(sweep.runs.WithLabelValues(StatusSucceeded)), ShouldEqual, 1)
			So(testutil.ToFloat64(sweep.runs.WithLabelValues(StatusFailed)), ShouldEqual, 1)
		})

		Convey("Textfile holds labelled metrics", func() {
			data, err := ioutil.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `join_sweep_runs_total{experiment="join",status="failed"} 1`)
			So(string(data), ShouldContainSubstring, `join_sweep_configurations_planned{experiment="join"} 12`)
		})
	})

	Convey("Nil sweep ignores calls", t, func() {
		var sweep *Sweep
		So(sweep.Planned(1), ShouldBeNil)
		So(sweep.Built(), ShouldBeNil)
		So(sweep.Ran(StatusSucceeded, time.Second, 1), ShouldBeNil)
	})

	Convey("Sweep without path does not write", t, func() {
		So(NewSweep("join", "").Built(), ShouldBeNil)
	})
}
