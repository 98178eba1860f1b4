package functions

import (
	"errors"

	"github.com/joshliu14/betweenmeandyusan/api/invocation"
	"github.com/joshliu14/betweenmeandyusan/api/responses"
	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/pipelines/pipeline_download"
	"github.com/sirupsen/logrus"
)

func getMedia(ctx rcontext.RequestContext, env *Env, req *invocation.Request) interface{} {
	id := req.Query["id"]
	if id == "" {
		id = req.Query["media"]
	}
	return serveMedia(ctx, env, id, req.Query["type"])
}

func serveMedia(ctx rcontext.RequestContext, env *Env, id string, category string) interface{} {
	ctx = ctx.LogWithFields(logrus.Fields{
		"mediaId":  id,
		"category": category,
	})

	obj, stream, err := pipeline_download.Execute(ctx, env.Datastore, id, category)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidMediaId):
			return responses.BadRequest("Invalid file ID")
		case errors.Is(err, common.ErrInvalidCategory):
			return responses.BadRequest("Type must be photo or video")
		case errors.Is(err, common.ErrMediaNotFound):
			return responses.NotFoundError("File not found")
		}
		return responses.InternalServerError(ctx, err, "Failed to fetch data")
	}

	return &responses.DownloadResponse{
		ContentType:       obj.ContentType,
		Filename:          obj.Filename,
		SizeBytes:         obj.SizeBytes,
		Data:              stream,
		TargetDisposition: "inline",
		CacheControl:      responses.ImmutableCacheControl,
	}
}
