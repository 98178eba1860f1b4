package datastores

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

var s3clients = &sync.Map{}

type s3 struct {
	client       *minio.Client
	bucket       string
	storageClass string
}

type s3Options struct {
	endpoint     string
	bucket       string
	accessKeyId  string
	accessSecret string
	region       string
	storageClass string
	useSsl       bool
}

func ResetS3Clients() {
	s3clients = &sync.Map{}
}

func parseS3Options(opts map[string]string) (s3Options, error) {
	o := s3Options{
		endpoint:     opts["endpoint"],
		bucket:       opts["bucketName"],
		accessKeyId:  opts["accessKeyId"],
		accessSecret: opts["accessSecret"],
		region:       opts["region"],
		storageClass: opts["storageClass"],
		useSsl:       true,
	}
	if o.storageClass == "" {
		o.storageClass = "STANDARD"
	}
	if s, ok := opts["ssl"]; ok && s != "" {
		o.useSsl, _ = strconv.ParseBool(s)
	}
	if o.endpoint == "" || o.bucket == "" {
		return o, errors.New("s3 datastore needs an endpoint and bucketName")
	}
	return o, nil
}

// NewS3 returns an S3 backed datastore. Clients are cached by endpoint and bucket.
func NewS3(opts map[string]string) (Datastore, error) {
	o, err := parseS3Options(opts)
	if err != nil {
		return nil, err
	}

	cacheKey := o.endpoint + "/" + o.bucket
	if val, ok := s3clients.Load(cacheKey); ok {
		return val.(*s3), nil
	}

	client, err := minio.New(o.endpoint, &minio.Options{
		Region: o.region,
		Secure: o.useSsl,
		Creds:  credentials.NewStaticV4(o.accessKeyId, o.accessSecret, ""),
	})
	if err != nil {
		return nil, err
	}

	s3c := &s3{
		client:       client,
		bucket:       o.bucket,
		storageClass: o.storageClass,
	}
	actual, _ := s3clients.LoadOrStore(cacheKey, s3c)
	return actual.(*s3), nil
}

func (s *s3) Kind() string {
	return TypeS3
}

func objectKey(partition string, id string) string {
	return partition + "/" + id
}

func (s *s3) EnsureBucketExists(ctx rcontext.RequestContext) error {
	countOperation(TypeS3, "BucketExists")
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("bucket not found")
	}
	return nil
}

func (s *s3) Put(ctx rcontext.RequestContext, partition string, filename string, data []byte, meta types.ObjectMetadata) (string, error) {
	id := NewObjectId()

	countOperation(TypeS3, "PutObject")
	_, err := s.client.PutObject(ctx, s.bucket, objectKey(partition, id), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  meta.ContentType,
		StorageClass: s.storageClass,
		UserMetadata: s3UserMetadata(filename, meta),
	})
	if err != nil {
		return "", errors.Wrap(err, "error uploading to s3")
	}
	return id, nil
}

func (s *s3) Get(ctx rcontext.RequestContext, partition string, id string) (*types.StoredObject, io.ReadCloser, error) {
	if err := ValidateId(id); err != nil {
		return nil, nil, err
	}
	key := objectKey(partition, id)

	countOperation(TypeS3, "StatObject")
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		var merr minio.ErrorResponse
		if errors.As(err, &merr) && (merr.Code == "NoSuchKey" || merr.StatusCode == http.StatusNotFound) {
			return nil, nil, common.ErrMediaNotFound
		}
		return nil, nil, errors.Wrap(err, "error getting s3 object info")
	}

	countOperation(TypeS3, "GetObject")
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "error getting s3 object")
	}

	stored := &types.StoredObject{
		Id:          id,
		ContentType: info.ContentType,
		SizeBytes:   info.Size,
		Category:    categoryForPartition(partition),
		UploadedAt:  info.LastModified,
	}
	if fname, ok := userMetadata(info.UserMetadata, "filename"); ok {
		if unescaped, err := url.QueryUnescape(fname); err == nil {
			fname = unescaped
		}
		stored.Filename = fname
	}
	if ts, ok := userMetadata(info.UserMetadata, "upload-date"); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			stored.UploadedAt = parsed
		}
	}
	return stored, obj, nil
}

// s3UserMetadata carries the same fields GridFS keeps in its metadata document.
func s3UserMetadata(filename string, meta types.ObjectMetadata) map[string]string {
	return map[string]string{
		"filename":    url.QueryEscape(filename),
		"upload-date": meta.UploadDate.UTC().Format(time.RFC3339Nano),
		"file-size":   strconv.FormatInt(meta.FileSize, 10),
		"type":        string(meta.Category),
	}
}

// userMetadata looks a key up regardless of how the server canonicalised it.
func userMetadata(m map[string]string, key string) (string, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) || strings.EqualFold(k, "x-amz-meta-"+key) {
			return v, true
		}
	}
	return "", false
}
