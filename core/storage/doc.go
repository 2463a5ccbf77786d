// Package storage wraps the MinIO Go client for the object store that bundled
// datasets can be published to and loaded from. It works against AWS S3 and
// self-hosted MinIO alike.
//
// The Client interface is deliberately narrow so it can be mocked in tests
// (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket); err != nil {
//	    return err
//	}
package storage
