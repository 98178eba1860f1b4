package types

import (
	"encoding/json"
	"testing"

	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestMediaUrl(t *testing.T) {
	assert.Equal(t, "/api/get-veterans?media=abc&type=photo", MediaUrl("/api/get-veterans", "abc", common.CategoryPhoto))
	assert.Equal(t, "/x?site=1&media=abc&type=video", MediaUrl("/x?site=1", "abc", common.CategoryVideo))
}

func TestWithMediaUrls(t *testing.T) {
	s := &Story{
		PhotoId:  strPtr("507f1f77bcf86cd799439011"),
		VideoId:  strPtr("507f191e810c19729de860ea"),
		VideoUrl: strPtr("/old/url"),
	}
	s.WithMediaUrls("/api/get-veterans")
	assert.Equal(t, "/api/get-veterans?media=507f1f77bcf86cd799439011&type=photo", s.Photo)
	assert.Equal(t, "/api/get-veterans?media=507f191e810c19729de860ea&type=video", *s.VideoUrl)

	plain := &Story{VideoUrl: strPtr("/kept")}
	plain.WithMediaUrls("/api/get-veterans")
	assert.Equal(t, "", plain.Photo)
	assert.Equal(t, "/kept", *plain.VideoUrl)
}

func TestStoryJsonShape(t *testing.T) {
	s := &Story{Name: "Jo", Country: "United States", Status: StoryStatusPending}
	b, err := json.Marshal(s)
	assert.NoError(t, err)

	m := make(map[string]interface{})
	assert.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "Jo", m["name"])
	assert.Nil(t, m["rank"])
	assert.Contains(t, m, "rank")
	assert.NotContains(t, m, "_id")
	assert.NotContains(t, m, "photo")
}

func TestSearchableText(t *testing.T) {
	s := &Story{Name: "Jo", Rank: strPtr("Sergeant")}
	fields := s.SearchableText()
	assert.Len(t, fields, 8)
	assert.Contains(t, fields, "Sergeant")
}
