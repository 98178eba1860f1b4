package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/getsentry/sentry-go"
	"github.com/joshliu14/betweenmeandyusan/api"
	"github.com/joshliu14/betweenmeandyusan/api/functions"
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/common/logging"
	"github.com/joshliu14/betweenmeandyusan/common/runtime"
	"github.com/joshliu14/betweenmeandyusan/common/version"
	"github.com/joshliu14/betweenmeandyusan/metrics"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "stories.yaml", "The path to the configuration")
	versionFlag := flag.Bool("version", false, "Prints the version and exits")
	flag.Parse()

	if *versionFlag {
		version.Print(false)
		return // exit 0
	}

	// Override config path with config for Docker users
	configEnv := os.Getenv("STORIES_CONFIG")
	if configEnv != "" {
		configPath = &configEnv
	}

	config.Path = *configPath
	if err := runtime.InitSentry(config.Get().Sentry); err != nil {
		panic(err)
	}
	defer sentry.Flush(2 * time.Second)
	defer sentry.Recover()

	err := logging.Setup(
		config.Get().General.LogDirectory,
		config.Get().General.LogColors,
		config.Get().General.JsonLogs,
		config.Get().General.LogLevel,
	)
	if err != nil {
		panic(err)
	}

	logrus.Info("Starting up...")
	version.Print(true)
	resources, err := runtime.RunStartupSequence(config.Get())
	if err != nil {
		logrus.Fatal(err)
	}

	logrus.Info("Starting config watcher...")
	watcher := config.Watch()
	defer func(watcher *fsnotify.Watcher) {
		_ = watcher.Close()
	}(watcher)
	setupReloads()

	logrus.Info("Starting story server...")
	metrics.Start()
	web := api.Init(&functions.Env{
		Datastore: resources.Datastore,
		Stories:   resources.Stories,
	})

	// Set up a function to stop everything
	stopAllButWeb := func() {
		logrus.Info("Stopping reload watchers...")
		stopReloads()

		logrus.Info("Stopping metrics...")
		metrics.Stop()
	}

	// Set up a listener for SIGINT
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	selfStop := false
	go func() {
		defer close(stop)
		<-stop
		selfStop = true

		logrus.Warn("Stop signal received")
		stopAllButWeb()

		logrus.Info("Stopping web server...")
		api.Stop()
	}()

	// Wait for the web server to exit nicely
	web.Wait()

	// Stop everything else if we have to
	if !selfStop {
		stopAllButWeb()
	}

	logrus.Info("Closing database connection...")
	if err = resources.Provider.Close(context.Background()); err != nil {
		logrus.Error(err)
	}

	// For debugging
	logrus.Info("Goodbye!")
}
