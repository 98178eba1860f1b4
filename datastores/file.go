package datastores

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path"

	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/pkg/errors"
)

type fileStore struct {
	basePath string
}

// NewFile stores objects on local disk as <path>/<partition>/<id> with a .json metadata sidecar.
func NewFile(basePath string) (Datastore, error) {
	if basePath == "" {
		return nil, errors.New("file datastore needs a path")
	}
	return &fileStore{basePath: basePath}, nil
}

func (f *fileStore) Kind() string {
	return TypeFile
}

func (f *fileStore) Put(ctx rcontext.RequestContext, partition string, filename string, data []byte, meta types.ObjectMetadata) (string, error) {
	targetDir := path.Join(f.basePath, partition)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", err
	}

	id := NewObjectId()
	obj := &types.StoredObject{
		Id:          id,
		Filename:    filename,
		ContentType: meta.ContentType,
		SizeBytes:   int64(len(data)),
		Category:    meta.Category,
		UploadedAt:  meta.UploadDate,
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}

	countOperation(TypeFile, "WriteFile")
	if err = os.WriteFile(path.Join(targetDir, id), data, 0644); err != nil {
		return "", errors.Wrap(err, "error writing object")
	}
	if err = os.WriteFile(path.Join(targetDir, id+".json"), b, 0644); err != nil {
		_ = os.Remove(path.Join(targetDir, id))
		return "", errors.Wrap(err, "error writing object metadata")
	}
	return id, nil
}

func (f *fileStore) Get(ctx rcontext.RequestContext, partition string, id string) (*types.StoredObject, io.ReadCloser, error) {
	if err := ValidateId(id); err != nil {
		return nil, nil, err
	}
	targetDir := path.Join(f.basePath, partition)

	countOperation(TypeFile, "ReadFile")
	b, err := os.ReadFile(path.Join(targetDir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, common.ErrMediaNotFound
		}
		return nil, nil, err
	}
	obj := &types.StoredObject{}
	if err = json.Unmarshal(bytes.TrimSpace(b), obj); err != nil {
		return nil, nil, errors.Wrap(err, "error reading object metadata")
	}

	stream, err := os.Open(path.Join(targetDir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, common.ErrMediaNotFound
		}
		return nil, nil, err
	}
	return obj, stream, nil
}
