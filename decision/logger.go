package decision

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "decision")
