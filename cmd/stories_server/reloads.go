package main

import (
	"github.com/joshliu14/betweenmeandyusan/api"
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/common/logging"
	"github.com/joshliu14/betweenmeandyusan/metrics"
	"github.com/sirupsen/logrus"
)

func setupReloads() {
	reloadWebOnChan(config.WebReloadChan)
	reloadMetricsOnChan(config.MetricsReloadChan)
	reloadLoggingOnChan(config.LogReloadChan)
}

func stopReloads() {
	// send stop signal to reload fns
	logrus.Debug("Stopping WebReloadChan")
	config.WebReloadChan <- false
	logrus.Debug("Stopping MetricsReloadChan")
	config.MetricsReloadChan <- false
	logrus.Debug("Stopping LogReloadChan")
	config.LogReloadChan <- false
}

func reloadWebOnChan(reloadChan chan bool) {
	go func() {
		for {
			shouldReload := <-reloadChan
			if shouldReload {
				api.Reload()
			} else {
				return // received stop
			}
		}
	}()
}

func reloadMetricsOnChan(reloadChan chan bool) {
	go func() {
		for {
			shouldReload := <-reloadChan
			if shouldReload {
				metrics.Restart()
			} else {
				return // received stop
			}
		}
	}()
}

func reloadLoggingOnChan(reloadChan chan bool) {
	go func() {
		for {
			shouldReload := <-reloadChan
			if shouldReload {
				if err := logging.SetLevel(config.Get().General.LogLevel); err != nil {
					logrus.Error("Error changing log level: ", err)
				}
			} else {
				return // received stop
			}
		}
	}()
}
