package datastores

import (
	"io"

	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/database"
	"github.com/joshliu14/betweenmeandyusan/metrics"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TypeGridFS = "gridfs"
	TypeS3     = "s3"
	TypeFile   = "file"
	TypeMemory = "memory"
)

// Datastore persists immutable media objects. Objects live in a partition ("photos" or "videos")
// and an object stored in one partition can't be read through another.
type Datastore interface {
	Kind() string
	// Put stores data and returns the id assigned to it.
	Put(ctx rcontext.RequestContext, partition string, filename string, data []byte, meta types.ObjectMetadata) (string, error)
	// Get returns the object's details and a stream of its bytes, or common.ErrMediaNotFound.
	// The caller closes the stream.
	Get(ctx rcontext.RequestContext, partition string, id string) (*types.StoredObject, io.ReadCloser, error)
}

func Open(conf config.DatastoreConfig, provider *database.Provider) (Datastore, error) {
	switch conf.Type {
	case TypeGridFS, "":
		return NewGridFS(provider), nil
	case TypeS3:
		return NewS3(conf.Options)
	case TypeFile:
		return NewFile(conf.Options["path"])
	case TypeMemory:
		return NewMemory(), nil
	}
	return nil, errors.New("unknown datastore type: " + conf.Type)
}

func NewObjectId() string {
	return primitive.NewObjectID().Hex()
}

// ValidateId checks that id is a well formed object id.
func ValidateId(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return common.ErrInvalidMediaId
	}
	return nil
}

func categoryForPartition(partition string) common.Category {
	for _, c := range common.AllCategories {
		if c.Partition() == partition {
			return c
		}
	}
	return ""
}

func countOperation(kind string, operation string) {
	metrics.DatastoreOperations.With(prometheus.Labels{"datastore": kind, "operation": operation}).Inc()
}
