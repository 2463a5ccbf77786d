package integrity

import (
	"context"
	"errors"

	"holocron/core/storage"
	"holocron/core/store"
	"holocron/feature/integrity/checks"

	"go.uber.org/zap"
)

// Report is the combined result of every integrity check.
type Report struct {
	Healthy      bool                    `json:"healthy"`
	Version      int                     `json:"version"`
	Encyclopedia *checks.SchemaReport    `json:"encyclopedia"`
	Collection   *checks.SchemaReport    `json:"collection"`
	References   *checks.ReferenceReport `json:"references,omitempty"`
	Dataset      *DatasetReport          `json:"dataset,omitempty"`
}

// DatasetReport describes the published dataset object, when the dataset is
// read from object storage.
type DatasetReport struct {
	Bucket    string `json:"bucket"`
	Object    string `json:"object"`
	Published bool   `json:"published"`
	Error     string `json:"error,omitempty"`
}

// Service handles integrity checks.
type Service struct {
	store  *store.Store
	client storage.Client
	bucket string
	object string
	logger *zap.Logger
}

// NewService creates a new integrity service. client may be nil, in which
// case the published dataset is not checked.
func NewService(st *store.Store, client storage.Client, bucket, object string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  st,
		client: client,
		bucket: bucket,
		object: object,
		logger: logger,
	}
}

// Check inspects both stores. The store must be open.
func (s *Service) Check(ctx context.Context) (*Report, error) {
	enc, err := s.store.Encyclopedia()
	if err != nil {
		return nil, err
	}
	col, err := s.store.Collection()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if report.Version, err = s.store.CurrentVersion(ctx); err != nil {
		return nil, err
	}

	models := append(store.CatalogModels(), &store.Metadata{})
	if report.Encyclopedia, err = checks.CheckSchema(enc.WithContext(ctx), models...); err != nil {
		return nil, err
	}
	if report.Collection, err = checks.CheckSchema(col.WithContext(ctx), &store.CollectionEntry{}); err != nil {
		return nil, err
	}

	if report.Encyclopedia.Matched && report.Collection.Matched {
		if report.References, err = checks.CheckReferences(ctx, enc, col); err != nil {
			return nil, errors.Join(store.ErrQueryFailed, err)
		}
	}

	if s.client != nil {
		report.Dataset = &DatasetReport{Bucket: s.bucket, Object: s.object}
		published, err := checks.CheckPublishedDataset(ctx, s.client, s.bucket, s.object)
		if err != nil {
			s.logger.Warn("Published dataset check failed", zap.Error(err))
			report.Dataset.Error = err.Error()
		}
		report.Dataset.Published = published
	}

	report.Healthy = report.Version != store.NoVersion &&
		report.Encyclopedia.Matched &&
		report.Collection.Matched &&
		report.References != nil && !report.References.Broken() &&
		(report.Dataset == nil || report.Dataset.Published)

	return report, nil
}
