package config

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	c := NewDefaultMainConfig()
	assert.Equal(t, "yusanstories", c.Database.DatabaseName)
	assert.Equal(t, "betweenmeandyusan", c.Database.StoriesCollection)
	assert.Equal(t, int64(10*1024*1024), c.Uploads.Photos.MaxSizeBytes)
	assert.Equal(t, int64(100*1024*1024), c.Uploads.Videos.MaxSizeBytes)
	assert.Greater(t, c.General.MaxRequestBytes, c.Uploads.Videos.MaxSizeBytes)
	assert.ElementsMatch(t, []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}, c.Uploads.Photos.AllowedTypes)
	assert.ElementsMatch(t, []string{"video/mp4", "video/webm", "video/mov"}, c.Uploads.Videos.AllowedTypes)
	assert.Equal(t, 50, c.Stories.SearchLimit)
	assert.Equal(t, "United States", c.Stories.DefaultCountry)
	assert.False(t, c.General.TrustAnyForward)
	assert.Contains(t, c.General.TrustedProxies, "127.0.0.0/8")
	assert.Contains(t, c.General.TrustedProxies, "10.0.0.0/8")
}

func TestForCategory(t *testing.T) {
	c := NewDefaultMainConfig()

	p, ok := c.Uploads.ForCategory("photo")
	assert.True(t, ok)
	assert.Equal(t, c.Uploads.Photos.MaxSizeBytes, p.MaxSizeBytes)

	v, ok := c.Uploads.ForCategory("video")
	assert.True(t, ok)
	assert.Equal(t, c.Uploads.Videos.MaxSizeBytes, v.MaxSizeBytes)

	_, ok = c.Uploads.ForCategory("audio")
	assert.False(t, ok)
	_, ok = c.Uploads.ForCategory("Photo")
	assert.False(t, ok)
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db.example.org:27017")
	t.Setenv("NODE_ENV", "development")

	c := FromEnvironment()
	assert.Equal(t, "mongodb://db.example.org:27017", c.Database.MongoUri)
	assert.True(t, c.General.ExposeErrors)
}

func TestApplyEnvironmentProduction(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("NODE_ENV", "production")

	c := FromEnvironment()
	assert.Equal(t, "mongodb://localhost:27017", c.Database.MongoUri)
	assert.False(t, c.General.ExposeErrors)
}

func TestReloadConfigWritesDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("NODE_ENV", "")
	old := Path
	defer func() { Path = old }()
	Path = path.Join(t.TempDir(), "stories.yaml")

	c, err := reloadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 8000, c.General.Port)

	_, err = os.Stat(Path)
	assert.NoError(t, err)
}

func TestReloadConfigDirectoryOverlay(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("NODE_ENV", "")
	old := Path
	defer func() { Path = old }()
	dir := t.TempDir()
	Path = dir

	assert.NoError(t, os.WriteFile(path.Join(dir, "01-base.yaml"), []byte("repo:\n  port: 9100\nstories:\n  searchLimit: 20\n"), 0644))
	assert.NoError(t, os.WriteFile(path.Join(dir, "02-override.yaml"), []byte("repo:\n  port: 9200\n"), 0644))

	c, err := reloadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 9200, c.General.Port)
	assert.Equal(t, 20, c.Stories.SearchLimit)
	assert.Equal(t, "yusanstories", c.Database.DatabaseName)
}
