package publisher

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "publisher")
