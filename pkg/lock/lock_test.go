package lock

import (
	"io/ioutil"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLock(t *testing.T) {
	Convey("With a temporary build root", t, func() {
		dir, err := ioutil.TempDir("", "lock")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		lock, err := Acquire(dir)
		So(err, ShouldBeNil)
		So(Holder(dir), ShouldEqual, os.Getpid())

		Convey("Second acquisition fails while the lock is held", func() {
			// flock locks belong to open file descriptions, so a second open conflicts
			// even within one process.
			_, err := Acquire(dir)
			So(err, ShouldNotBeNil)
			So(IsLocked(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "held by pid")
			So(lock.Release(), ShouldBeNil)
		})

		Convey("Lock can be taken again after release", func() {
			So(lock.Release(), ShouldBeNil)
			So(lock.Release(), ShouldBeNil)

			again, err := Acquire(dir)
			So(err, ShouldBeNil)
			So(again.Release(), ShouldBeNil)
		})
	})

	Convey("Holder of missing lock is unknown", t, func() {
		So(Holder("/nonexistent"), ShouldEqual, 0)
	})
}
