package config

import (
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

var WebReloadChan = make(chan bool)
var MetricsReloadChan = make(chan bool)
var LogReloadChan = make(chan bool)

func Watch() *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logrus.Fatal(err)
	}

	err = watcher.Add(Path)
	if err != nil {
		logrus.Fatal(err)
	}

	go func() {
		debounced := debounce.New(1 * time.Second)
		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}
				debounced(onFileChanged)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logrus.Error("error in config watcher:", err)
			}
		}
	}()

	return watcher
}

func onFileChanged() {
	logrus.Info("Config file change detected - reloading")
	configNow := Get()
	configNew, err := reloadConfig()
	if err != nil {
		logrus.Error("Error reloading configuration - ignoring")
		logrus.Error(err)
		return
	}

	logrus.Info("Applying reloaded config live")
	instance = configNew

	bindAddressChange := configNew.General.BindAddress != configNow.General.BindAddress
	bindPortChange := configNew.General.Port != configNow.General.Port
	forwardAddressChange := configNew.General.TrustAnyForward != configNow.General.TrustAnyForward ||
		strings.Join(configNew.General.TrustedProxies, ",") != strings.Join(configNow.General.TrustedProxies, ",")
	rateLimitChange := configNew.RateLimit != configNow.RateLimit
	if bindAddressChange || bindPortChange || forwardAddressChange || rateLimitChange {
		logrus.Warn("Webserver configuration changed - remounting")
		WebReloadChan <- true
	}

	metricsEnableChange := configNew.Metrics.Enabled != configNow.Metrics.Enabled
	metricsBindAddressChange := configNew.Metrics.BindAddress != configNow.Metrics.BindAddress
	metricsBindPortChange := configNew.Metrics.Port != configNow.Metrics.Port
	if metricsEnableChange || metricsBindAddressChange || metricsBindPortChange {
		logrus.Warn("Metrics configuration changed - remounting")
		MetricsReloadChan <- true
	}

	logLevelChange := configNew.General.LogLevel != configNow.General.LogLevel
	if logLevelChange {
		LogReloadChan <- true
	}

	if configNew.General.LogDirectory != configNow.General.LogDirectory {
		logrus.Warn("Log directory changed - restart the server to apply changes")
	}
	if configNew.Database != configNow.Database || configNew.Datastore.Type != configNow.Datastore.Type {
		logrus.Warn("Database or datastore configuration changed - restart the server to apply changes")
	}
}
