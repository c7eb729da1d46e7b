package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"marianconnect/internal/imaging"
	"marianconnect/internal/metrics"
	"marianconnect/internal/models"
	"marianconnect/internal/storage"
)

// Thumbnail bounds, in pixels.
const (
	ThumbMaxWidth  = 300
	ThumbMaxHeight = 300
)

// GalleryRecorder persists gallery rows. CreateWith must insert the row,
// run finalize and only keep the row if finalize succeeds.
type GalleryRecorder interface {
	CreateWith(ctx context.Context, g *models.GalleryImage, finalize func(*models.GalleryImage) error) (*models.GalleryImage, error)
}

// Batch holds the metadata shared by every file of a gallery upload.
type Batch struct {
	Title       string
	Description string
	Category    string
	EventID     *uuid.UUID
	IsFeatured  bool
	UploadedBy  *uuid.UUID
}

// Result is the outcome of a gallery upload. Partial success is normal:
// Uploaded holds the stored rows and Errors one message per failed file.
type Result struct {
	Uploaded []models.GalleryImage
	Errors   []string
}

// Ingester turns uploaded files into stored images.
type Ingester struct {
	gallery    GalleryRecorder
	backend    storage.Backend
	stagingDir string
	now        func() time.Time
}

// NewIngester creates an Ingester that stages files in stagingDir before
// promoting them into backend.
func NewIngester(gallery GalleryRecorder, backend storage.Backend, stagingDir string) *Ingester {
	return &Ingester{
		gallery:    gallery,
		backend:    backend,
		stagingDir: stagingDir,
		now:        time.Now,
	}
}

// Ingest processes files one at a time, in order. A file that fails
// validation or storage is reported in Result.Errors and does not stop
// the batch.
func (in *Ingester) Ingest(ctx context.Context, b Batch, files []File) Result {
	var res Result
	for i, f := range files {
		img, err := in.ingestOne(ctx, b, i, f)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		res.Uploaded = append(res.Uploaded, *img)
	}
	return res
}

// staged is a file accepted into the staging directory.
type staged struct {
	path        string
	ext         string
	contentType string
}

// accept validates f, copies it into staging and checks its content.
func (in *Ingester) accept(f File) (*staged, error) {
	ext, err := Validate(f)
	if err != nil {
		return nil, err
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	path, err := stage(in.stagingDir, rc, MaxFileSize)
	rc.Close()
	if err != nil {
		return nil, err
	}

	if err := checkContent(path, ext); err != nil {
		removeStaged(path)
		return nil, err
	}
	return &staged{path: path, ext: ext, contentType: contentTypes[ext]}, nil
}

func (in *Ingester) ingestOne(ctx context.Context, b Batch, index int, f File) (*models.GalleryImage, error) {
	name := f.Filename()

	src, err := in.accept(f)
	if err != nil {
		return nil, in.reject(name, err)
	}
	defer removeStaged(src.path)

	stored := NewName(in.now(), index, src.ext)
	g := &models.GalleryImage{
		Title:      galleryTitle(b.Title, name),
		ImagePath:  storage.Key(storage.PrefixGallery, stored),
		Category:   b.Category,
		EventID:    b.EventID,
		UploadedBy: b.UploadedBy,
		IsFeatured: b.IsFeatured,
	}
	if b.Description != "" {
		g.Description = &b.Description
	}

	thumbPath := in.stageThumbnail(src.path, name)
	defer removeStaged(thumbPath)
	if thumbPath != "" {
		key := storage.Key(storage.PrefixThumbnails, stored)
		g.ThumbnailPath = &key
	}

	var promoted []string
	created, err := in.gallery.CreateWith(ctx, g, func(row *models.GalleryImage) error {
		if err := in.backend.Promote(ctx, src.path, row.ImagePath, src.contentType); err != nil {
			return err
		}
		promoted = append(promoted, row.ImagePath)
		if thumbPath != "" {
			if err := in.backend.Promote(ctx, thumbPath, *row.ThumbnailPath, src.contentType); err != nil {
				return err
			}
			promoted = append(promoted, *row.ThumbnailPath)
		}
		return nil
	})
	if err != nil {
		if cerr := storage.DeleteAll(context.WithoutCancel(ctx), in.backend, promoted...); cerr != nil {
			slog.Warn("gallery cleanup failed", "error", cerr, "keys", promoted)
		}
		slog.Error("gallery upload failed", "error", err, "file", name)
		metrics.GalleryFiles.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, &FileError{Name: name, Err: ErrSaveFailed}
	}

	metrics.GalleryFiles.WithLabelValues(metrics.OutcomeAccepted).Inc()
	return created, nil
}

// reject records a validation failure for the named file.
func (in *Ingester) reject(name string, err error) error {
	if errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrInvalidType) || errors.Is(err, ErrContentMismatch) {
		slog.Info("gallery file rejected", "file", name, "reason", err)
		metrics.GalleryFiles.WithLabelValues(metrics.OutcomeRejected).Inc()
		return &FileError{Name: name, Err: err}
	}
	slog.Error("gallery staging failed", "error", err, "file", name)
	metrics.GalleryFiles.WithLabelValues(metrics.OutcomeFailed).Inc()
	return &FileError{Name: name, Err: ErrSaveFailed}
}

// stageThumbnail writes a thumbnail of the staged original next to it and
// returns its path, or "" when no thumbnail could be made.
func (in *Ingester) stageThumbnail(srcPath, name string) string {
	data, err := os.ReadFile(srcPath)
	if err == nil {
		data, _, err = imaging.Thumbnail(data, ThumbMaxWidth, ThumbMaxHeight)
	}
	var path string
	if err == nil {
		path, err = stageBytes(in.stagingDir, data)
	}
	if err != nil {
		slog.Warn("thumbnail generation failed", "error", err, "file", name)
		metrics.ThumbnailFailures.Inc()
		return ""
	}
	return path
}

// galleryTitle returns the shared batch title, or the file name without
// its extension when no title was given.
func galleryTitle(title, filename string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	base := filename
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

// Save validates a single image and stores it under prefix, returning its
// storage key. The caller owns the key and must delete it if the row that
// references it cannot be written.
func (in *Ingester) Save(ctx context.Context, prefix string, f File) (string, error) {
	src, err := in.accept(f)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrInvalidType) || errors.Is(err, ErrContentMismatch) {
			return "", &FileError{Name: f.Filename(), Err: err}
		}
		return "", fmt.Errorf("stage %s: %w", f.Filename(), err)
	}
	defer removeStaged(src.path)

	key := storage.Key(prefix, NewName(in.now(), 0, src.ext))
	if err := in.backend.Promote(ctx, src.path, key, src.contentType); err != nil {
		return "", fmt.Errorf("store %s: %w", f.Filename(), err)
	}
	return key, nil
}

// Delete removes a stored key, logging instead of failing. Empty keys are
// ignored.
func (in *Ingester) Delete(ctx context.Context, keys ...string) {
	if err := storage.DeleteAll(ctx, in.backend, keys...); err != nil {
		slog.Warn("file cleanup failed", "error", err, "keys", keys)
	}
}
