package errutil

import (
	"github.com/sirupsen/logrus"
)

// Check logs the error with its stack trace on debug level and exits on fatal level.
func Check(err error) {
	if err != nil {
		logrus.Debugf("%+v", err)
		logrus.Fatalf("%v", err)
	}
}

// CheckWithContext is Check with additional context prepended to the message.
func CheckWithContext(err error, context string) {
	if err != nil {
		logrus.Debugf("%s: %+v", context, err)
		logrus.Fatalf("%s: %v", context, err)
	}
}
