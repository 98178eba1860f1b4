package database

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-memdb"
	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const storiesMemTable = "stories"

type memStory struct {
	Key   string
	Story types.Story
}

type memoryStoriesTable struct {
	db *memdb.MemDB
}

// NewMemoryStoriesTable keeps stories in process memory. It backs tests and local runs
// without a database server.
func NewMemoryStoriesTable() StoriesTable {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			storiesMemTable: {
				Name: storiesMemTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		// the schema is static
		panic(err)
	}
	return &memoryStoriesTable{db: db}
}

func keyOf(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return "oid:" + oid.Hex()
	}
	return fmt.Sprintf("raw:%v", id)
}

func (t *memoryStoriesTable) Insert(ctx rcontext.RequestContext, story *types.Story) (interface{}, error) {
	if story.ID == nil {
		story.ID = primitive.NewObjectID()
	}
	key := keyOf(story.ID)

	txn := t.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(storiesMemTable, "id", key)
	if err != nil {
		return nil, errors.Wrap(err, "error checking story key")
	}
	if existing != nil {
		return nil, common.ErrConflict
	}
	if err = txn.Insert(storiesMemTable, &memStory{Key: key, Story: *story}); err != nil {
		return nil, errors.Wrap(err, "error inserting story")
	}
	txn.Commit()
	return story.ID, nil
}

func (t *memoryStoriesTable) all() ([]types.Story, error) {
	txn := t.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(storiesMemTable, "id")
	if err != nil {
		return nil, err
	}
	stories := make([]types.Story, 0)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		stories = append(stories, obj.(*memStory).Story)
	}
	return stories, nil
}

func (t *memoryStoriesTable) FindOne(ctx rcontext.RequestContext, id string) (*types.Story, error) {
	stories, err := t.all()
	if err != nil {
		return nil, err
	}

	matchers := make([]func(s types.Story) bool, 0, 4)
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		matchers = append(matchers, func(s types.Story) bool {
			sid, ok := s.ID.(primitive.ObjectID)
			return ok && sid == oid
		})
	}
	matchers = append(matchers,
		func(s types.Story) bool { return s.ID == id },
		func(s types.Story) bool { return s.LegacyId == id },
		func(s types.Story) bool { return s.VeteranId == id },
	)

	for _, matches := range matchers {
		for _, s := range stories {
			if matches(s) {
				found := s
				return &found, nil
			}
		}
	}
	return nil, common.ErrStoryNotFound
}

func (t *memoryStoriesTable) Search(ctx rcontext.RequestContext, query string, limit int) ([]*types.Story, error) {
	stories, err := t.all()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	results := make([]*types.Story, 0)
	for i := range stories {
		s := stories[i]
		if s.Status == types.StoryStatusRejected {
			continue
		}
		if needle != "" && !containsFold(s.SearchableText(), needle) {
			continue
		}
		results = append(results, &s)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SubmittedAt.After(results[j].SubmittedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func containsFold(fields []string, lowerNeedle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowerNeedle) {
			return true
		}
	}
	return false
}
