package file

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/pkg/id"
	"github.com/gabriel-vasile/mimetype"
)

// maxBase64Size caps inline uploads after decoding.
const maxBase64Size = 10 << 20

// sniffLen is how much of a stream is peeked to detect its content type.
const sniffLen = 3072

type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	Purpose     string
	Owner       string
}

type Service interface {
	Upload(ctx context.Context, input UploadInput) (*domain.File, error)
	UploadBase64(ctx context.Context, filename, base64Data, purpose, owner string) (*domain.File, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, *domain.File, error)
	Link(ctx context.Context, fileID string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, fileID string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type fileStore interface {
	Put(ctx context.Context, f *domain.File) error
	Get(ctx context.Context, fileID string) (*domain.File, error)
	SoftDelete(ctx context.Context, fileID string) error
}

type ServiceDeps struct {
	Objects objectStore
	Files   fileStore
}

type service struct {
	objects objectStore
	files   fileStore
}

func NewService(deps ServiceDeps) Service {
	return &service{objects: deps.Objects, files: deps.Files}
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.File, error) {
	safeName := sanitizeFilename(input.Filename)
	fileID := id.New()
	key := objectKey(input.Purpose, fileID, safeName)
	body := bufio.NewReaderSize(input.Reader, sniffLen)
	contentType := input.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		head, _ := body.Peek(sniffLen)
		contentType = mimetype.Detect(head).String()
	}
	hasher := sha256.New()
	tee := io.TeeReader(body, hasher)
	if _, err := s.objects.Upload(ctx, key, tee, contentType); err != nil {
		return nil, err
	}
	return s.record(ctx, fileID, key, safeName, contentType, input.Size, hex.EncodeToString(hasher.Sum(nil)), input.Purpose, input.Owner)
}

func (s *service) UploadBase64(ctx context.Context, filename, base64Data, purpose, owner string) (*domain.File, error) {
	if i := strings.Index(base64Data, ";base64,"); i >= 0 {
		base64Data = base64Data[i+len(";base64,"):]
	}
	decoded, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", domain.ErrBadRequest)
	}
	if len(decoded) == 0 || len(decoded) > maxBase64Size {
		return nil, fmt.Errorf("file must be between 1 byte and %d bytes: %w", maxBase64Size, domain.ErrBadRequest)
	}
	safeName := sanitizeFilename(filename)
	fileID := id.New()
	key := objectKey(purpose, fileID, safeName)
	contentType := mimetype.Detect(decoded).String()
	if _, err := s.objects.Upload(ctx, key, bytes.NewReader(decoded), contentType); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(decoded)
	return s.record(ctx, fileID, key, safeName, contentType, int64(len(decoded)), hex.EncodeToString(sum[:]), purpose, owner)
}

func (s *service) record(ctx context.Context, fileID, key, name, contentType string, size int64, hash, purpose, owner string) (*domain.File, error) {
	now := time.Now().UTC()
	f := &domain.File{
		FileID:    fileID,
		Object:    key,
		Size:      size,
		Type:      contentType,
		Name:      name,
		Hash:      hash,
		Purpose:   purpose,
		Owner:     owner,
		Enable:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.files.Put(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) lookup(ctx context.Context, fileID string) (*domain.File, error) {
	if !id.Valid(fileID) {
		return nil, fmt.Errorf("file %q: %w", fileID, domain.ErrNotFound)
	}
	f, err := s.files.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !f.Enable {
		return nil, fmt.Errorf("file not found: %w", domain.ErrNotFound)
	}
	return f, nil
}

func (s *service) Download(ctx context.Context, fileID string) (io.ReadCloser, *domain.File, error) {
	f, err := s.lookup(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.objects.Download(ctx, f.Object)
	if err != nil {
		return nil, nil, err
	}
	return rc, f, nil
}

func (s *service) Link(ctx context.Context, fileID string, ttl time.Duration) (string, error) {
	f, err := s.lookup(ctx, fileID)
	if err != nil {
		return "", err
	}
	return s.objects.PresignedURL(ctx, f.Object, ttl)
}

func (s *service) Delete(ctx context.Context, fileID string) error {
	f, err := s.lookup(ctx, fileID)
	if err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, f.Object); err != nil {
		return err
	}
	return s.files.SoftDelete(ctx, fileID)
}

func objectKey(purpose, fileID, name string) string {
	if purpose == "" {
		purpose = "misc"
	}
	return fmt.Sprintf("%s/%s/%s", purpose, fileID, name)
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}
