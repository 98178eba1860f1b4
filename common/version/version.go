package version

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

var GitCommit string
var Version string

func SetDefaults() {
	if GitCommit == "" {
		GitCommit = ".dev"
		if build, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range build.Settings {
				if setting.Key == "vcs.revision" {
					GitCommit = setting.Value
					break
				}
			}
		}
	}

	if Version == "" {
		Version = "unknown"
	}
}

// Release is the value reported to sentry and the health check.
func Release() string {
	SetDefaults()
	return fmt.Sprintf("stories@%s-%s", Version, GitCommit)
}

func Print(usingLogger bool) {
	SetDefaults()

	if usingLogger {
		logrus.Info("Version: " + Version)
		logrus.Info("Commit: " + GitCommit)
	} else {
		fmt.Println("Version: " + Version)
		fmt.Println("Commit: " + GitCommit)
	}
}
