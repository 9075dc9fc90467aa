package kdtree

import "github.com/sirupsen/logrus"

// logger is the package-level structured logger used for the rare
// warning-level diagnostics the tree emits. It is not exported; callers
// who want to observe these events should watch logrus's default output
// or call logrus.SetOutput/SetLevel as usual.
var logger = logrus.WithField("component", "kdtree")
