package checks

import (
	"context"
	"fmt"

	"holocron/core/storage"

	"github.com/minio/minio-go/v7"
)

// CheckPublishedDataset reports whether the dataset object exists in bucket.
func CheckPublishedDataset(ctx context.Context, client storage.Client, bucket, object string) (bool, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("bucket %s does not exist", bucket)
	}

	opts := minio.ListObjectsOptions{
		Prefix:  object,
		MaxKeys: 1,
	}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return false, fmt.Errorf("list %s: %w", object, obj.Err)
		}
		if obj.Key == object {
			return true, nil
		}
	}
	return false, nil
}
