package pipeline_download

import (
	"io"

	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/datastores"
	"github.com/joshliu14/betweenmeandyusan/metrics"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/prometheus/client_golang/prometheus"
)

const DefaultContentType = "application/octet-stream"

// Execute looks up a stored object by id within its category. The caller closes the returned stream.
func Execute(ctx rcontext.RequestContext, ds datastores.Datastore, id string, category string) (*types.StoredObject, io.ReadCloser, error) {
	// Step 1: Validate the id
	if err := datastores.ValidateId(id); err != nil {
		return nil, nil, err
	}

	// Step 2: Validate the category
	cat, ok := common.ParseCategory(category)
	if !ok {
		return nil, nil, common.ErrInvalidCategory
	}

	// Step 3: Find it
	obj, stream, err := ds.Get(ctx, cat.Partition(), id)
	if err != nil {
		return nil, nil, err
	}
	if obj.ContentType == "" {
		obj.ContentType = DefaultContentType
	}
	if obj.Category == "" {
		obj.Category = cat
	}

	metrics.MediaDownloaded.With(prometheus.Labels{"category": string(cat)}).Inc()
	return obj, stream, nil
}
