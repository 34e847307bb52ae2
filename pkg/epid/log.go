package epid

import (
	"github.com/sirupsen/logrus"
)

// Logger is used by the member and verifier packages. It never receives secret values.
var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
}
