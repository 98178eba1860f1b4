package datastores

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/database"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type gridfsStore struct {
	database func(ctx context.Context) (*mongo.Database, error)
}

type gridfsFile struct {
	ID         primitive.ObjectID `bson:"_id"`
	Length     int64              `bson:"length"`
	Filename   string             `bson:"filename"`
	UploadDate time.Time          `bson:"uploadDate"`
	Metadata   bson.Raw           `bson:"metadata"`
}

// NewGridFS stores objects in GridFS, one bucket per partition.
func NewGridFS(provider *database.Provider) Datastore {
	return &gridfsStore{database: func(ctx context.Context) (*mongo.Database, error) {
		return provider.GetOrCreate(ctx)
	}}
}

func (g *gridfsStore) Kind() string {
	return TypeGridFS
}

func (g *gridfsStore) bucket(ctx rcontext.RequestContext, partition string) (*gridfs.Bucket, error) {
	db, err := g.database(ctx)
	if err != nil {
		return nil, err
	}
	return gridfs.NewBucket(db, options.GridFSBucket().SetName(partition))
}

func (g *gridfsStore) Put(ctx rcontext.RequestContext, partition string, filename string, data []byte, meta types.ObjectMetadata) (string, error) {
	bucket, err := g.bucket(ctx, partition)
	if err != nil {
		return "", err
	}

	countOperation(TypeGridFS, "UploadFromStream")
	opts := options.GridFSUpload().SetMetadata(bson.D{
		{Key: "contentType", Value: meta.ContentType},
		{Key: "uploadDate", Value: meta.UploadDate},
		{Key: "fileSize", Value: meta.FileSize},
		{Key: "type", Value: string(meta.Category)},
	})
	oid, err := bucket.UploadFromStream(filename, bytes.NewReader(data), opts)
	if err != nil {
		return "", errors.Wrap(err, "error uploading to gridfs")
	}
	return oid.Hex(), nil
}

func (g *gridfsStore) Get(ctx rcontext.RequestContext, partition string, id string) (*types.StoredObject, io.ReadCloser, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, common.ErrInvalidMediaId
	}
	bucket, err := g.bucket(ctx, partition)
	if err != nil {
		return nil, nil, err
	}

	countOperation(TypeGridFS, "FindFile")
	file := &gridfsFile{}
	err = bucket.GetFilesCollection().FindOne(ctx, bson.M{"_id": oid}).Decode(file)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, common.ErrMediaNotFound
		}
		return nil, nil, errors.Wrap(err, "error finding gridfs file")
	}

	countOperation(TypeGridFS, "OpenDownloadStream")
	stream, err := bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, common.ErrMediaNotFound
		}
		return nil, nil, errors.Wrap(err, "error opening gridfs stream")
	}

	obj := &types.StoredObject{
		Id:         id,
		Filename:   file.Filename,
		SizeBytes:  file.Length,
		Category:   categoryForPartition(partition),
		UploadedAt: file.UploadDate,
	}
	if file.Metadata != nil {
		if ct, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok {
			obj.ContentType = ct
		}
	}
	return obj, stream, nil
}
