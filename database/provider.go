package database

import (
	"context"
	"sync"
	"time"

	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type connectFn = func(ctx context.Context) (*mongo.Client, error)

// Provider hands out a lazily connected database handle. The first successful connection is
// kept for the life of the process; failed attempts are not cached, so the next caller retries.
type Provider struct {
	dbName  string
	connect connectFn

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

func NewProvider(conf config.DatabaseConfig) *Provider {
	timeout := time.Duration(conf.ConnectTimeoutSeconds) * time.Second
	uri := conf.MongoUri
	return &Provider{
		dbName: conf.DatabaseName,
		connect: func(ctx context.Context) (*mongo.Client, error) {
			opts := options.Client().ApplyURI(uri)
			if timeout > 0 {
				opts = opts.SetConnectTimeout(timeout).SetServerSelectionTimeout(timeout)
			}
			client, err := mongo.Connect(ctx, opts)
			if err != nil {
				return nil, err
			}
			if err = client.Ping(ctx, readpref.Primary()); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, err
			}
			return client, nil
		},
	}
}

func (p *Provider) GetOrCreate(ctx context.Context) (*mongo.Database, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}

	logrus.Info("Connecting to database...")
	client, err := p.connect(ctx)
	if err != nil {
		metrics.DatabaseConnects.With(prometheus.Labels{"result": "error"}).Inc()
		return nil, errors.Wrap(err, "error connecting to database")
	}
	metrics.DatabaseConnects.With(prometheus.Labels{"result": "ok"}).Inc()

	p.client = client
	p.db = client.Database(p.dbName)
	return p.db, nil
}

// Close disconnects the cached client, if any. Only process shutdown should call this.
func (p *Provider) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return nil
	}
	err := p.client.Disconnect(ctx)
	p.client = nil
	p.db = nil
	return err
}
