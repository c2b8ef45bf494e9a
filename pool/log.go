package pool

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = defaultLogger()

func defaultLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(defaultLevel)
	return l.WithField("component", "poolkit")
}

// SetLogger replaces the package logger used by pools and runners that were
// not given their own via WithLogger / WithProcessLogger. Passing nil restores
// the default. It is not safe to call concurrently with pool construction.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = defaultLogger()
	}
	logger = l
}
