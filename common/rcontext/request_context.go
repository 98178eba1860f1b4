package rcontext

import (
	"context"
	"net/http"

	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/sirupsen/logrus"
)

// Initial is the context used outside of a request, like during startup.
func Initial() RequestContext {
	return InitialWith(config.Get())
}

func InitialWith(cfg *config.MainRepoConfig) RequestContext {
	return RequestContext{
		Context: context.Background(),
		Log:     logrus.WithFields(logrus.Fields{"nocontext": true}),
		Config:  *cfg,
		Request: nil,
	}.populate()
}

type RequestContext struct {
	context.Context

	// These are also stored on the context object itself
	Log     *logrus.Entry         // stories.logger
	Config  config.MainRepoConfig // snapshot taken when the request started
	Request *http.Request
}

func (c RequestContext) populate() RequestContext {
	c.Context = context.WithValue(c.Context, common.ContextLogger, c.Log)
	return c
}

func (c RequestContext) ReplaceLogger(log *logrus.Entry) RequestContext {
	ctx := context.WithValue(c.Context, common.ContextLogger, log)
	return RequestContext{
		Context: ctx,
		Log:     log,
		Config:  c.Config,
		Request: c.Request,
	}
}

func (c RequestContext) LogWithFields(fields logrus.Fields) RequestContext {
	return c.ReplaceLogger(c.Log.WithFields(fields))
}

// WithContext swaps the underlying context, keeping the logger and config.
func (c RequestContext) WithContext(ctx context.Context) RequestContext {
	c.Context = ctx
	return c.populate()
}
