// Package archive stores raw uploaded stock workbooks in object storage so
// an admin can recover the file behind any import.
package archive

import (
	"context"

	"github.com/rs/zerolog"
)

// Archiver stores an uploaded file under a name. Archiving is best-effort;
// callers log failures and continue.
type Archiver interface {
	Store(ctx context.Context, filename string, data []byte) error
}

// noopArchiver is used when S3 archiving is disabled.
type noopArchiver struct{}

// NewNoopArchiver creates an archiver that discards everything.
func NewNoopArchiver(logger zerolog.Logger) Archiver {
	logger.Info().Msg("upload archiving disabled")
	return &noopArchiver{}
}

func (a *noopArchiver) Store(ctx context.Context, filename string, data []byte) error {
	return nil
}
