package functions

import (
	"errors"
	"strconv"

	"github.com/joshliu14/betweenmeandyusan/api/invocation"
	"github.com/joshliu14/betweenmeandyusan/api/responses"
	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/metrics"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	detailMaxAge = 300
	searchMaxAge = 60
)

func getVeterans(ctx rcontext.RequestContext, env *Env, req *invocation.Request) interface{} {
	if mediaId := req.Query["media"]; mediaId != "" {
		return serveMedia(ctx, env, mediaId, req.Query["type"])
	}

	endpoint := ctx.Config.General.MediaEndpoint

	if id := req.Query["id"]; id != "" {
		story, err := env.Stories.FindOne(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrStoryNotFound) {
				return responses.NotFoundError("Veteran not found")
			}
			return responses.InternalServerError(ctx, err, "Failed to fetch data")
		}
		return &responses.CachedResponse{Payload: story.WithMediaUrls(endpoint), MaxAgeSeconds: detailMaxAge}
	}

	query := req.Query["q"]
	metrics.StorySearches.With(prometheus.Labels{"filtered": strconv.FormatBool(query != "")}).Inc()
	stories, err := env.Stories.Search(ctx, query, ctx.Config.Stories.SearchLimit)
	if err != nil {
		return responses.InternalServerError(ctx, err, "Failed to fetch data")
	}

	results := make([]*types.Story, 0, len(stories))
	for _, s := range stories {
		results = append(results, s.WithMediaUrls(endpoint))
	}
	ctx.Log.Infof("Found %d stories", len(results))
	return &responses.CachedResponse{Payload: results, MaxAgeSeconds: searchMaxAge}
}
