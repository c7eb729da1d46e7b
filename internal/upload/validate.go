// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upload validates, stages and stores uploaded images. Gallery
// batches go through Ingester.Ingest, which records one row per accepted
// file; single images for news and events go through Ingester.Save.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxFileSize is the largest accepted upload, in bytes.
const MaxFileSize = 5 << 20

// MaxBatchFiles is the most files one gallery upload may carry.
const MaxBatchFiles = 20

// allowedTypes maps each accepted extension to the MIME types a browser
// may declare for it. Sniffed content must match the same list.
var allowedTypes = map[string][]string{
	"jpg":  {"image/jpeg", "image/pjpeg"},
	"jpeg": {"image/jpeg", "image/pjpeg"},
	"png":  {"image/png", "image/x-png"},
	"gif":  {"image/gif"},
}

// contentTypes is the canonical Content-Type stored for each extension.
var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

var (
	ErrFileTooLarge    = errors.New("file exceeds the 5 MB limit")
	ErrInvalidType     = errors.New("only JPG, PNG and GIF images are allowed")
	ErrContentMismatch = errors.New("file content does not match its type")
	ErrSaveFailed      = errors.New("file could not be saved")
)

// FileError ties a validation or storage error to the client-supplied
// file name.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Name, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

// File is one uploaded file as received from the client.
type File interface {
	Filename() string
	Size() int64
	DeclaredType() string
	Open() (io.ReadCloser, error)
}

type multipartFile struct {
	fh *multipart.FileHeader
}

// FromMultipart adapts a multipart file header to File.
func FromMultipart(fh *multipart.FileHeader) File {
	return multipartFile{fh: fh}
}

func (m multipartFile) Filename() string     { return m.fh.Filename }
func (m multipartFile) Size() int64          { return m.fh.Size }
func (m multipartFile) DeclaredType() string { return m.fh.Header.Get("Content-Type") }
func (m multipartFile) Open() (io.ReadCloser, error) {
	return m.fh.Open()
}

// Extension returns the lowercased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// mediaType strips parameters and normalises a Content-Type value.
func mediaType(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}

// Validate checks the extension, the declared MIME type and the size of f
// and returns the normalised extension.
func Validate(f File) (string, error) {
	ext := Extension(f.Filename())
	allowed, ok := allowedTypes[ext]
	if !ok {
		return "", ErrInvalidType
	}
	if !slices.Contains(allowed, mediaType(f.DeclaredType())) {
		return "", ErrInvalidType
	}
	if f.Size() > MaxFileSize {
		return "", ErrFileTooLarge
	}
	return ext, nil
}

// checkContent sniffs the file at path and requires it to be one of the
// types allowed for ext.
func checkContent(path, ext string) error {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("sniff content: %w", err)
	}
	for _, t := range allowedTypes[ext] {
		if mt.Is(t) {
			return nil
		}
	}
	return ErrContentMismatch
}
