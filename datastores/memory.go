package datastores

import (
	"bytes"
	"io"

	"github.com/hashicorp/go-memdb"
	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/types"
	"github.com/pkg/errors"
)

const objectsMemTable = "objects"

type memObject struct {
	Key    string
	Object types.StoredObject
	Data   []byte
}

type MemoryDatastore struct {
	db *memdb.MemDB
}

// NewMemory keeps objects in process memory.
func NewMemory() *MemoryDatastore {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			objectsMemTable: {
				Name: objectsMemTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		panic(err)
	}
	return &MemoryDatastore{db: db}
}

func (m *MemoryDatastore) Kind() string {
	return TypeMemory
}

func (m *MemoryDatastore) Put(ctx rcontext.RequestContext, partition string, filename string, data []byte, meta types.ObjectMetadata) (string, error) {
	id := NewObjectId()
	rec := &memObject{
		Key: objectKey(partition, id),
		Object: types.StoredObject{
			Id:          id,
			Filename:    filename,
			ContentType: meta.ContentType,
			SizeBytes:   int64(len(data)),
			Category:    meta.Category,
			UploadedAt:  meta.UploadDate,
		},
		Data: append([]byte(nil), data...),
	}

	countOperation(TypeMemory, "Insert")
	txn := m.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(objectsMemTable, rec); err != nil {
		return "", errors.Wrap(err, "error storing object")
	}
	txn.Commit()
	return id, nil
}

func (m *MemoryDatastore) Get(ctx rcontext.RequestContext, partition string, id string) (*types.StoredObject, io.ReadCloser, error) {
	if err := ValidateId(id); err != nil {
		return nil, nil, err
	}

	countOperation(TypeMemory, "First")
	txn := m.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(objectsMemTable, "id", objectKey(partition, id))
	if err != nil {
		return nil, nil, err
	}
	if raw == nil {
		return nil, nil, common.ErrMediaNotFound
	}
	rec := raw.(*memObject)
	obj := rec.Object
	return &obj, io.NopCloser(bytes.NewReader(rec.Data)), nil
}

// Count returns how many objects are stored, across all partitions.
func (m *MemoryDatastore) Count() int {
	txn := m.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(objectsMemTable, "id")
	if err != nil {
		return 0
	}
	n := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n
}
