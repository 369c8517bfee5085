package traveler

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "traveler")
