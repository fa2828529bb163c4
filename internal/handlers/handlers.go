package handlers

import (
	"context"

	"aforo/internal/config"
	"aforo/internal/importer"
)

// BlobUploader is the write side of the blob store, used by the upload
// handler before the job ledger row exists.
type BlobUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

type Handlers struct {
	pipeline *importer.Pipeline
	jobs     importer.JobStore
	blobs    BlobUploader
	cfg      config.ImportConfig
}

func NewHandlers(pipeline *importer.Pipeline, jobs importer.JobStore, blobs BlobUploader, cfg config.ImportConfig) *Handlers {
	return &Handlers{
		pipeline: pipeline,
		jobs:     jobs,
		blobs:    blobs,
		cfg:      cfg,
	}
}
