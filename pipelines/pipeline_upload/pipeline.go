package pipeline_upload

import (
	"strings"
	"time"

	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/datastores"
	"github.com/joshliu14/betweenmeandyusan/metrics"
	"github.com/joshliu14/betweenmeandyusan/pipelines/steps/upload"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Execute validates an upload and stores it. Nothing is written unless every check passes.
func Execute(ctx rcontext.RequestContext, ds datastores.Datastore, data []byte, fileName string, contentType string, category string) (*types.StoredObject, error) {
	// Step 1: Check the category
	cat, limits, err := upload.CheckCategory(ctx, category)
	if err != nil {
		metrics.MediaRejected.With(prometheus.Labels{"category": "unknown", "reason": "category"}).Inc()
		return nil, err
	}
	ctx = ctx.LogWithFields(logrus.Fields{"category": cat})

	// Step 2: Check the declared content type against the allow-list
	if err = upload.CheckContentType(limits, contentType); err != nil {
		ctx.Log.Debug("Rejecting upload with content type ", contentType)
		metrics.MediaRejected.With(prometheus.Labels{"category": string(cat), "reason": "content_type"}).Inc()
		return nil, err
	}

	// Step 3: Check the size
	size := int64(len(data))
	if err = upload.CheckSize(limits, size); err != nil {
		ctx.Log.Debugf("Rejecting upload of %d bytes (max %d)", size, limits.MaxSizeBytes)
		metrics.MediaRejected.With(prometheus.Labels{"category": string(cat), "reason": "too_large"}).Inc()
		return nil, err
	}

	// Step 4: Compare the bytes to what was declared
	upload.SniffContentType(ctx, data, contentType)

	// Step 5: Persist
	now := time.Now().UTC()
	contentType = strings.TrimSpace(contentType)
	meta := types.ObjectMetadata{
		ContentType: contentType,
		UploadDate:  now,
		FileSize:    size,
		Category:    cat,
	}
	id, err := ds.Put(ctx, cat.Partition(), fileName, data, meta)
	if err != nil {
		return nil, err
	}

	metrics.MediaUploaded.With(prometheus.Labels{"category": string(cat)}).Inc()
	metrics.MediaUploadedBytes.With(prometheus.Labels{"category": string(cat)}).Add(float64(size))
	ctx.Log.Infof("Stored %d bytes as %s in %s", size, id, ds.Kind())

	return &types.StoredObject{
		Id:          id,
		Filename:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		Category:    cat,
		UploadedAt:  now,
	}, nil
}
