//go:build debug

package pool

import "github.com/sirupsen/logrus"

// defaultLevel is raised when built with -tags debug.
const defaultLevel = logrus.DebugLevel
