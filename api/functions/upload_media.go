package functions

import (
	"errors"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joshliu14/betweenmeandyusan/api/invocation"
	"github.com/joshliu14/betweenmeandyusan/api/responses"
	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/pipelines/pipeline_upload"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/joshliu14/betweenmeandyusan/util/formdata"
	"github.com/sirupsen/logrus"
)

type MediaUploadedResponse struct {
	Id          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Url         string `json:"url"`
}

func isMultipart(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "multipart/form-data")
}

func uploadMedia(ctx rcontext.RequestContext, env *Env, req *invocation.Request) interface{} {
	contentType := req.Header("Content-Type")
	if !isMultipart(contentType) {
		return responses.BadRequest("Invalid Content-Type")
	}
	boundary, err := formdata.BoundaryFromContentType(contentType)
	if err != nil {
		if errors.Is(err, formdata.ErrNoBoundary) {
			return responses.BadRequest("Missing boundary in multipart form data")
		}
		return responses.BadRequest("Invalid Content-Type")
	}

	body, err := req.RawBody()
	if err != nil {
		ctx.Log.Warn("Error decoding request body: ", err)
		return responses.BadRequest("Invalid request body")
	}

	form := formdata.Decode(body, boundary)
	file, hasFile := form.File("file")
	category, hasType := form.Value("type")
	if !hasFile || !hasType || category == "" {
		return responses.BadRequest("Invalid file or type")
	}

	ctx = ctx.LogWithFields(logrus.Fields{
		"fileName":        file.FileName,
		"fileContentType": file.ContentType,
	})
	obj, err := pipeline_upload.Execute(ctx, env.Datastore, file.Data, file.FileName, file.ContentType, category)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCategory):
			return responses.BadRequest("Invalid file or type")
		case errors.Is(err, common.ErrUnsupportedMediaType):
			return responses.UnsupportedMediaType("Invalid file type: " + file.ContentType)
		case errors.Is(err, common.ErrMediaTooLarge):
			limits, _ := ctx.Config.Uploads.ForCategory(category)
			return responses.MediaTooLarge("File too large. Max size: " + humanize.IBytes(uint64(limits.MaxSizeBytes)))
		}
		return responses.InternalServerError(ctx, err, "Failed to upload media")
	}

	return &MediaUploadedResponse{
		Id:          obj.Id,
		Filename:    obj.Filename,
		ContentType: obj.ContentType,
		Size:        obj.SizeBytes,
		Url:         types.MediaUrl(ctx.Config.General.MediaEndpoint, obj.Id, obj.Category),
	}
}
