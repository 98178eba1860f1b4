package database

import (
	"testing"
	"time"

	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testContext() rcontext.RequestContext {
	cfg := config.NewDefaultMainConfig()
	return rcontext.InitialWith(&cfg)
}

func strPtr(s string) *string {
	return &s
}

func TestMemoryInsertAndFindByObjectId(t *testing.T) {
	ctx := testContext()
	table := NewMemoryStoriesTable()

	story := &types.Story{Name: "Alex", Status: types.StoryStatusPending}
	id, err := table.Insert(ctx, story)
	require.NoError(t, err)
	oid, ok := id.(primitive.ObjectID)
	require.True(t, ok)
	assert.Equal(t, id, story.ID)

	found, err := table.FindOne(ctx, oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Alex", found.Name)
}

func TestMemoryFindByLegacyIds(t *testing.T) {
	ctx := testContext()
	table := NewMemoryStoriesTable()

	_, err := table.Insert(ctx, &types.Story{ID: "vet-1", Name: "String Id"})
	require.NoError(t, err)
	_, err = table.Insert(ctx, &types.Story{LegacyId: "legacy-2", Name: "Legacy"})
	require.NoError(t, err)
	_, err = table.Insert(ctx, &types.Story{VeteranId: "veteran-3", Name: "Veteran"})
	require.NoError(t, err)

	s, err := table.FindOne(ctx, "vet-1")
	require.NoError(t, err)
	assert.Equal(t, "String Id", s.Name)

	s, err = table.FindOne(ctx, "legacy-2")
	require.NoError(t, err)
	assert.Equal(t, "Legacy", s.Name)

	s, err = table.FindOne(ctx, "veteran-3")
	require.NoError(t, err)
	assert.Equal(t, "Veteran", s.Name)

	_, err = table.FindOne(ctx, "nobody")
	assert.Equal(t, common.ErrStoryNotFound, err)
}

func TestMemoryInsertDuplicate(t *testing.T) {
	ctx := testContext()
	table := NewMemoryStoriesTable()

	_, err := table.Insert(ctx, &types.Story{ID: "same"})
	require.NoError(t, err)
	_, err = table.Insert(ctx, &types.Story{ID: "same"})
	assert.Equal(t, common.ErrConflict, err)
}

func TestMemorySearch(t *testing.T) {
	ctx := testContext()
	table := NewMemoryStoriesTable()
	now := time.Now()

	stories := []*types.Story{
		{Name: "Old Navy Story", Branch: "Navy", Status: types.StoryStatusPending, SubmittedAt: now.Add(-2 * time.Hour)},
		{Name: "New Navy Story", Branch: "navy", Status: types.StoryStatusPending, SubmittedAt: now},
		{Name: "Rejected Navy", Branch: "Navy", Status: types.StoryStatusRejected, SubmittedAt: now.Add(time.Hour)},
		{Name: "Army Story", Branch: "Army", Rank: strPtr("Sgt. (Ret.)"), Status: types.StoryStatusPending, SubmittedAt: now.Add(-time.Hour)},
	}
	for _, s := range stories {
		_, err := table.Insert(ctx, s)
		require.NoError(t, err)
	}

	results, err := table.Search(ctx, "NAVY", 50)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "New Navy Story", results[0].Name)
	assert.Equal(t, "Old Navy Story", results[1].Name)

	results, err = table.Search(ctx, "", 50)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	results, err = table.Search(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// literal, not a pattern
	results, err = table.Search(ctx, "(ret.)", 50)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Army Story", results[0].Name)

	results, err = table.Search(ctx, ".*", 50)
	require.NoError(t, err)
	assert.Empty(t, results)

	// rejected stories are still reachable directly
	_, err = table.FindOne(ctx, stories[2].ID.(primitive.ObjectID).Hex())
	assert.NoError(t, err)
}

func TestSearchFilter(t *testing.T) {
	f := searchFilter("")
	assert.Equal(t, bson.M{"$ne": types.StoryStatusRejected}, f["status"])
	assert.NotContains(t, f, "$or")

	f = searchFilter("a.b")
	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, len(searchFields))
	first := or[0].(bson.M)
	assert.Equal(t, primitive.Regex{Pattern: `a\.b`, Options: "i"}, first["name"])
}

func TestIdFilters(t *testing.T) {
	oid := primitive.NewObjectID()
	filters := idFilters(oid.Hex())
	require.Len(t, filters, 4)
	assert.Equal(t, bson.M{"_id": oid}, filters[0])
	assert.Equal(t, bson.M{"_id": oid.Hex()}, filters[1])
	assert.Equal(t, bson.M{"veteranId": oid.Hex()}, filters[3])

	filters = idFilters("not-hex")
	require.Len(t, filters, 3)
	assert.Equal(t, bson.M{"_id": "not-hex"}, filters[0])
}

func TestOpenStoriesTable(t *testing.T) {
	conf := config.NewDefaultMainConfig().Database
	conf.Engine = "memory"
	_, ok := OpenStoriesTable(conf, nil).(*memoryStoriesTable)
	assert.True(t, ok)

	conf.Engine = "mongo"
	_, ok = OpenStoriesTable(conf, NewProvider(conf)).(*mongoStoriesTable)
	assert.True(t, ok)
}
