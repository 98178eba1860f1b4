package types

import (
	"time"

	"github.com/joshliu14/betweenmeandyusan/common"
)

const (
	StoryStatusPending  = "pending"
	StoryStatusRejected = "rejected"
)

// Story is a submitted veteran story. Optional fields are nil when they were not given.
type Story struct {
	ID        interface{} `bson:"_id,omitempty" json:"_id,omitempty"`
	LegacyId  interface{} `bson:"id,omitempty" json:"id,omitempty"`
	VeteranId interface{} `bson:"veteranId,omitempty" json:"veteranId,omitempty"`

	Name         string  `bson:"name" json:"name"`
	Age          *int    `bson:"age" json:"age"`
	Location     string  `bson:"location" json:"location"`
	ServiceYears string  `bson:"serviceYears" json:"serviceYears"`
	Branch       string  `bson:"branch" json:"branch"`
	Rank         *string `bson:"rank" json:"rank"`
	Unit         *string `bson:"unit" json:"unit"`
	Story        string  `bson:"story" json:"story"`
	ContactEmail *string `bson:"contactEmail" json:"contactEmail"`

	Consent     bool      `bson:"consent" json:"consent"`
	SubmittedAt time.Time `bson:"submittedAt" json:"submittedAt"`
	Status      string    `bson:"status" json:"status"`

	PhotoUrl *string `bson:"photoUrl" json:"photoUrl"`
	PhotoId  *string `bson:"photoId" json:"photoId"`
	VideoUrl *string `bson:"videoUrl" json:"videoUrl"`
	VideoId  *string `bson:"videoId" json:"videoId"`

	Biography      *string `bson:"biography" json:"biography"`
	Medals         *string `bson:"medals" json:"medals"`
	Campaigns      *string `bson:"campaigns" json:"campaigns"`
	AdditionalInfo *string `bson:"additionalInfo" json:"additionalInfo"`
	Country        string  `bson:"country" json:"country"`

	// Photo is derived from PhotoId when the story is read back.
	Photo string `bson:"-" json:"photo,omitempty"`
}

// WithMediaUrls points Photo and VideoUrl at the media endpoint for any stored media ids.
func (s *Story) WithMediaUrls(endpoint string) *Story {
	if s.PhotoId != nil && *s.PhotoId != "" {
		s.Photo = MediaUrl(endpoint, *s.PhotoId, common.CategoryPhoto)
	}
	if s.VideoId != nil && *s.VideoId != "" {
		videoUrl := MediaUrl(endpoint, *s.VideoId, common.CategoryVideo)
		s.VideoUrl = &videoUrl
	}
	return s
}

// SearchableText returns the fields a free-text search looks at.
func (s *Story) SearchableText() []string {
	return []string{
		s.Name,
		s.Location,
		s.Story,
		s.Country,
		s.Branch,
		deref(s.Rank),
		deref(s.Unit),
		deref(s.Biography),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
