package runtime

import (
	"github.com/getsentry/sentry-go"
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/common/version"
	"github.com/joshliu14/betweenmeandyusan/database"
	"github.com/joshliu14/betweenmeandyusan/datastores"
	"github.com/sirupsen/logrus"
)

// Resources are the long-lived handles every request shares.
type Resources struct {
	Provider  *database.Provider
	Datastore datastores.Datastore
	Stories   database.StoriesTable
}

type bucketChecker interface {
	EnsureBucketExists(ctx rcontext.RequestContext) error
}

func InitSentry(conf config.SentryConfig) error {
	if !conf.Enabled {
		return nil
	}
	logrus.Info("Setting up Sentry for debugging...")
	return sentry.Init(sentry.ClientOptions{
		Dsn:         conf.Dsn,
		Environment: conf.Environment,
		Debug:       conf.Debug,
		Release:     version.Release(),
	})
}

// RunStartupSequence prepares the database provider, datastore and stories table. Nothing
// connects to MongoDB yet; the provider does that on first use.
func RunStartupSequence(conf *config.MainRepoConfig) (*Resources, error) {
	logrus.Info("Preparing database...")
	provider := database.NewProvider(conf.Database)
	if conf.Database.Engine == "memory" {
		logrus.Warn("Stories are kept in memory and will be lost on restart")
	}

	ds, err := LoadDatastore(conf, provider)
	if err != nil {
		return nil, err
	}

	return &Resources{
		Provider:  provider,
		Datastore: ds,
		Stories:   database.OpenStoriesTable(conf.Database, provider),
	}, nil
}

func LoadDatastore(conf *config.MainRepoConfig, provider *database.Provider) (datastores.Datastore, error) {
	logrus.Info("Initializing datastore...")
	ds, err := datastores.Open(conf.Datastore, provider)
	if err != nil {
		sentry.CaptureException(err)
		return nil, err
	}
	logrus.Info("Datastore: ", ds.Kind())

	if checker, ok := ds.(bucketChecker); ok {
		if err = checker.EnsureBucketExists(rcontext.InitialWith(conf)); err != nil {
			logrus.Warn("\tBucket does not exist! ", err)
		}
	}
	return ds, nil
}
