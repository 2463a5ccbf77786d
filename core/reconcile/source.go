package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"holocron/core/storage"

	"github.com/minio/minio-go/v7"
)

// Dataset source kinds.
const (
	SourceFile    = "file"
	SourceStorage = "storage"
)

// Config holds configuration for locating the bundled dataset.
type Config struct {
	// Source is where the dataset is read from: "file" or "storage".
	Source string `mapstructure:"source" default:"file"`
	// Path is the dataset file used by the file source.
	Path string `mapstructure:"path" default:"dataset.json"`
	// Object is the object name used by the storage source.
	Object string `mapstructure:"object" default:"datasets/latest.json"`
	// Version overrides the version stored inside the dataset when positive.
	Version int `mapstructure:"version" default:"0"`
}

// Source loads a dataset.
type Source interface {
	// Load reads and decodes the dataset.
	Load(ctx context.Context) (*Dataset, error)
	// Describe returns a human readable location for logs.
	Describe() string
}

// NewSource picks the dataset source named by cfg. client may be nil for the
// file source.
func NewSource(cfg Config, client storage.Client, bucket string) (Source, error) {
	switch strings.ToLower(cfg.Source) {
	case "", SourceFile:
		return &FileSource{Path: cfg.Path}, nil
	case SourceStorage:
		if client == nil {
			return nil, fmt.Errorf("dataset source %q requires a storage client", cfg.Source)
		}
		return &StorageSource{Client: client, Bucket: bucket, Object: cfg.Object}, nil
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}

// FileSource reads a dataset from the local filesystem.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s *FileSource) Load(_ context.Context) (*Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Describe implements Source.
func (s *FileSource) Describe() string {
	return "file:" + s.Path
}

// StorageSource reads a dataset object from a bucket.
type StorageSource struct {
	Client storage.Client
	Bucket string
	Object string
}

// Load implements Source.
func (s *StorageSource) Load(ctx context.Context) (*Dataset, error) {
	obj, err := s.Client.GetObject(ctx, s.Bucket, s.Object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get dataset object %s/%s: %w", s.Bucket, s.Object, err)
	}
	defer obj.Close()
	return Decode(obj)
}

// Describe implements Source.
func (s *StorageSource) Describe() string {
	return fmt.Sprintf("storage:%s/%s", s.Bucket, s.Object)
}

// Publish validates ds and uploads it to bucket under object.
func Publish(ctx context.Context, client storage.Client, bucket, object string, ds *Dataset) (minio.UploadInfo, error) {
	if err := ds.Validate(); err != nil {
		return minio.UploadInfo{}, fmt.Errorf("invalid dataset: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, bucket); err != nil {
		return minio.UploadInfo{}, err
	}

	data, err := json.Marshal(ds)
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("encode dataset: %w", err)
	}

	info, err := client.PutObject(ctx, bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("put dataset object %s/%s: %w", bucket, object, err)
	}
	return info, nil
}

// ListPublished returns the dataset objects under prefix, sorted by name.
func ListPublished(ctx context.Context, client storage.Client, bucket, prefix string) ([]string, error) {
	var names []string
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list datasets: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") {
			names = append(names, obj.Key)
		}
	}
	sort.Strings(names)
	return names, nil
}
