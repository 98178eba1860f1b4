package main

import (
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/getsentry/sentry-go"
	"github.com/joshliu14/betweenmeandyusan/api/functions"
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/common/logging"
	"github.com/joshliu14/betweenmeandyusan/common/runtime"
	"github.com/sirupsen/logrus"
)

func main() {
	// Functions get everything from the environment; there is no config file to watch
	conf := config.FromEnvironment()

	if err := runtime.InitSentry(conf.Sentry); err != nil {
		panic(err)
	}
	defer sentry.Flush(2 * time.Second)

	if err := logging.Setup("", false, true, conf.General.LogLevel); err != nil {
		panic(err)
	}

	resources, err := runtime.RunStartupSequence(conf)
	if err != nil {
		logrus.Fatal(err)
	}

	h := &proxyHandler{
		env: &functions.Env{
			Datastore: resources.Datastore,
			Stories:   resources.Stories,
		},
		conf: conf,
	}
	lambda.Start(h.Handle)
}
