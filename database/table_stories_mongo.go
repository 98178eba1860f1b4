package database

import (
	"regexp"

	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoStoriesTable struct {
	provider   *Provider
	collection string
}

func NewMongoStoriesTable(provider *Provider, collection string) StoriesTable {
	return &mongoStoriesTable{provider: provider, collection: collection}
}

func (t *mongoStoriesTable) coll(ctx rcontext.RequestContext) (*mongo.Collection, error) {
	db, err := t.provider.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(t.collection), nil
}

func (t *mongoStoriesTable) Insert(ctx rcontext.RequestContext, story *types.Story) (interface{}, error) {
	c, err := t.coll(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.InsertOne(ctx, story)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrConflict
		}
		return nil, errors.Wrap(err, "error inserting story")
	}
	story.ID = res.InsertedID
	return res.InsertedID, nil
}

func idFilters(id string) []bson.M {
	filters := make([]bson.M, 0, 4)
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filters = append(filters, bson.M{"_id": oid})
	}
	return append(filters,
		bson.M{"_id": id},
		bson.M{"id": id},
		bson.M{"veteranId": id},
	)
}

func (t *mongoStoriesTable) FindOne(ctx rcontext.RequestContext, id string) (*types.Story, error) {
	c, err := t.coll(ctx)
	if err != nil {
		return nil, err
	}

	for _, filter := range idFilters(id) {
		res := c.FindOne(ctx, filter)
		if err = res.Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, errors.Wrap(err, "error finding story")
		}
		story := &types.Story{}
		if err = res.Decode(story); err != nil {
			ctx.Log.Warnf("Skipping undecodable story for %v: %s", filter, err)
			continue
		}
		return story, nil
	}

	return nil, common.ErrStoryNotFound
}

func searchFilter(query string) bson.M {
	filter := bson.M{"status": bson.M{"$ne": types.StoryStatusRejected}}
	if query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
		or := bson.A{}
		for _, f := range searchFields {
			or = append(or, bson.M{f: re})
		}
		filter["$or"] = or
	}
	return filter
}

func (t *mongoStoriesTable) Search(ctx rcontext.RequestContext, query string, limit int) ([]*types.Story, error) {
	c, err := t.coll(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := c.Find(ctx, searchFilter(query), opts)
	if err != nil {
		return nil, errors.Wrap(err, "error searching stories")
	}
	defer cursor.Close(ctx)

	results := make([]*types.Story, 0)
	for cursor.Next(ctx) {
		story := &types.Story{}
		if err = cursor.Decode(story); err != nil {
			ctx.Log.Warn("Skipping undecodable story: ", err)
			continue
		}
		results = append(results, story)
	}
	if err = cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading search results")
	}
	return results, nil
}
