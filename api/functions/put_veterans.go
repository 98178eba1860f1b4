package functions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joshliu14/betweenmeandyusan/api/invocation"
	"github.com/joshliu14/betweenmeandyusan/api/responses"
	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/metrics"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/joshliu14/betweenmeandyusan/util"
)

var requiredStoryFields = []string{"name", "location", "serviceYears", "branch", "story", "consent"}

type StorySubmittedResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	Id           interface{}  `json:"id"`
	VeteranStory *types.Story `json:"veteranStory"`
}

// submission is a decoded story form. Values keep whatever JSON type the client sent.
type submission map[string]interface{}

func putVeterans(ctx rcontext.RequestContext, env *Env, req *invocation.Request) interface{} {
	// The story form may post its media here directly
	if isMultipart(req.Header("Content-Type")) {
		return uploadMedia(ctx, env, req)
	}

	body, err := req.RawBody()
	if err != nil {
		return responses.BadRequest("Invalid JSON in request body")
	}
	var data submission
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err = decoder.Decode(&data); err != nil || data == nil {
		return responses.BadRequest("Invalid JSON in request body")
	}

	missing := make([]string, 0)
	for _, field := range requiredStoryFields {
		if !data.present(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return responses.BadRequest("Missing required fields: " + strings.Join(missing, ", "))
	}
	if !data.consented() {
		return responses.BadRequest("Consent is required to submit story")
	}

	story := data.toStory(ctx.Config.Stories.DefaultCountry)
	id, err := env.Stories.Insert(ctx, story)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return responses.Conflict("A story with similar content already exists")
		}
		return responses.InternalServerError(ctx, err, "Failed to submit story. Please try again later.")
	}

	metrics.StoriesSubmitted.Inc()
	ctx.Log.Info("Story submitted: ", id)
	return &responses.CreatedResponse{Payload: &StorySubmittedResponse{
		Success:      true,
		Message:      "Story submitted successfully",
		Id:           id,
		VeteranStory: story,
	}}
}

func (s submission) toStory(defaultCountry string) *types.Story {
	story := &types.Story{
		Name:         s.trimmed("name"),
		Location:     s.trimmed("location"),
		ServiceYears: s.trimmed("serviceYears"),
		Branch:       s.trimmed("branch"),
		Story:        s.trimmed("story"),

		Rank:           s.optionalTrimmed("rank"),
		Unit:           s.optionalTrimmed("unit"),
		ContactEmail:   s.optionalTrimmed("contactEmail"),
		Biography:      s.optionalTrimmed("biography"),
		Medals:         s.optionalTrimmed("medals"),
		Campaigns:      s.optionalTrimmed("campaigns"),
		AdditionalInfo: s.optionalTrimmed("additionalInfo"),

		PhotoUrl: s.optional("photoUrl"),
		PhotoId:  s.optional("photoId"),
		VideoUrl: s.optional("videoUrl"),
		VideoId:  s.optional("videoId"),

		Country:     defaultCountry,
		Consent:     true,
		SubmittedAt: time.Now().UTC(),
		Status:      types.StoryStatusPending,
	}
	if country := s.optional("country"); country != nil {
		story.Country = *country
	}
	if s.truthy("age") {
		if age, ok := util.ParseLeadingInt(s.text("age")); ok {
			story.Age = &age
		}
	}
	return story
}

// truthy follows how a form would judge the value: missing, null, false, zero and empty
// strings are all unset.
func (s submission) truthy(field string) bool {
	switch v := s[field].(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	}
	return true
}

// present is truthy with surrounding whitespace ignored.
func (s submission) present(field string) bool {
	return s.truthy(field) && s.trimmed(field) != ""
}

func (s submission) consented() bool {
	if !s.truthy("consent") {
		return false
	}
	v, isString := s["consent"].(string)
	return !isString || !strings.EqualFold(strings.TrimSpace(v), "false")
}

func (s submission) text(field string) string {
	switch v := s[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (s submission) trimmed(field string) string {
	return strings.TrimSpace(s.text(field))
}

func (s submission) optional(field string) *string {
	if !s.truthy(field) {
		return nil
	}
	v := s.text(field)
	return &v
}

func (s submission) optionalTrimmed(field string) *string {
	if !s.truthy(field) {
		return nil
	}
	v := s.trimmed(field)
	return &v
}
