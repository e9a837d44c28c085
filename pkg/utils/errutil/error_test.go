package errutil

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCheck(t *testing.T) {
	Convey("Check exits only on error", t, func() {
		exited := false
		logrus.StandardLogger().ExitFunc = func(int) { exited = true }
		defer func() { logrus.StandardLogger().ExitFunc = nil }()

		Check(nil)
		So(exited, ShouldBeFalse)

		CheckWithContext(errors.New("boom"), "while testing")
		So(exited, ShouldBeTrue)
	})
}
