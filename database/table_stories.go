package database

import (
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/types"
)

// StoriesTable persists story records. Rejected stories are hidden from Search but can still
// be fetched by id.
type StoriesTable interface {
	// Insert stores the story and returns the id it was given. A duplicate key is common.ErrConflict.
	Insert(ctx rcontext.RequestContext, story *types.Story) (interface{}, error)
	// FindOne tries the id as an ObjectId, then as a string _id, then as the legacy id and
	// veteranId fields. Nothing matching is common.ErrStoryNotFound.
	FindOne(ctx rcontext.RequestContext, id string) (*types.Story, error)
	// Search returns non-rejected stories, newest first. An empty query matches everything.
	Search(ctx rcontext.RequestContext, query string, limit int) ([]*types.Story, error)
}

var searchFields = []string{"name", "location", "story", "country", "branch", "rank", "unit", "biography"}

func OpenStoriesTable(conf config.DatabaseConfig, provider *Provider) StoriesTable {
	if conf.Engine == "memory" {
		return NewMemoryStoriesTable()
	}
	return NewMongoStoriesTable(provider, conf.StoriesCollection)
}
