//go:build !debug

package pool

import "github.com/sirupsen/logrus"

const defaultLevel = logrus.InfoLevel
