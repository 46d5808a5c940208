package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"storyapi/internal/storage"
)

// UploadsPath is the public URL prefix stored covers are served under.
const UploadsPath = "/uploads/"

const octetStream = "application/octet-stream"

var (
	ErrReaderNil     = errors.New("reader is nil")
	ErrCoverNotFound = errors.New("cover not found")
)

// CoverUpload tells the client where an uploaded cover can be fetched.
type CoverUpload struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// CoverObject is a stored cover opened for streaming. Body must be closed by the caller.
type CoverObject struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// CoverService stores and serves cover images. It never touches story records.
type CoverService interface {
	// Upload stores the content under a generated name "<unix-millis>-<uuid><ext>".
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*CoverUpload, error)

	// Open returns a previously uploaded cover by its generated filename.
	Open(ctx context.Context, filename string) (*CoverObject, error)
}

type coverService struct {
	store storage.Storage
	now   func() time.Time
	newID func() string
}

// NewCoverService constructs a new CoverService.
func NewCoverService(store storage.Storage) CoverService {
	return &coverService{store: store, now: time.Now, newID: uuid.NewString}
}

const maxExtLen = 16

// extension returns the original extension when it is "." followed by ASCII
// letters and digits, and "" otherwise. The generated name is returned as a
// URL path segment, so it must never need escaping.
func extension(name string) string {
	ext := filepath.Ext(name)
	if len(ext) < 2 || len(ext) > maxExtLen {
		return ""
	}
	for _, r := range ext[1:] {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return ""
		}
	}
	return ext
}

func (s *coverService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*CoverUpload, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	ext := extension(originalFilename)
	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), s.newID(), ext)

	// Multipart clients commonly send the generic type; the extension is more specific.
	if contentType == "" || contentType == octetStream {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = octetStream
	}

	if _, err := s.store.Put(ctx, name, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	return &CoverUpload{Filename: name, URL: UploadsPath + name}, nil
}

func (s *coverService) Open(ctx context.Context, filename string) (*CoverObject, error) {
	if filename == "" || filename == "." || filename == ".." || strings.ContainsAny(filename, `/\`) {
		return nil, ErrCoverNotFound
	}

	rc, info, err := s.store.Get(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrCoverNotFound
		}
		return nil, fmt.Errorf("open cover: %w", err)
	}
	return &CoverObject{Body: rc, ContentType: info.ContentType, Size: info.Size}, nil
}
