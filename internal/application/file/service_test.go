package file

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjects struct{ mock.Mock }

func (m *mockObjects) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockObjects) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if rc, _ := args.Get(0).(io.ReadCloser); rc != nil {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockObjects) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}
func (m *mockObjects) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockFiles struct{ mock.Mock }

func (m *mockFiles) Put(ctx context.Context, f *domain.File) error {
	return m.Called(ctx, f).Error(0)
}
func (m *mockFiles) Get(ctx context.Context, fileID string) (*domain.File, error) {
	args := m.Called(ctx, fileID)
	if f, _ := args.Get(0).(*domain.File); f != nil {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFiles) SoftDelete(ctx context.Context, fileID string) error {
	return m.Called(ctx, fileID).Error(0)
}

func TestUpload_KeysByPurposeAndHashes(t *testing.T) {
	objs, files := &mockObjects{}, &mockFiles{}
	objs.On("Upload", mock.Anything, mock.MatchedBy(func(k string) bool {
		return strings.HasPrefix(k, "leaves/") && strings.HasSuffix(k, "/note.pdf")
	}), "application/pdf").Return("s3://b/k", nil)
	files.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(ServiceDeps{Objects: objs, Files: files})
	f, err := svc.Upload(context.Background(), UploadInput{
		Reader:   bytes.NewReader([]byte("%PDF-1.4\n")),
		Filename: "../../note.pdf",
		Size:     9,
		Purpose:  domain.PurposeLeave,
		Owner:    "a@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "note.pdf", f.Name)
	assert.Equal(t, "e5c62df5dab5c87b6a015ef3d43597074d1eec433b15f51aec63b8582d0e4ab4", f.Hash)
	assert.Equal(t, "a@x.com", f.Owner)
	assert.True(t, f.Enable)
	objs.AssertExpectations(t)
}

func TestUploadBase64_StripsDataURLPrefix(t *testing.T) {
	objs, files := &mockObjects{}, &mockFiles{}
	objs.On("Upload", mock.Anything, mock.Anything, "image/png").Return("s3://b/k", nil)
	files.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(ServiceDeps{Objects: objs, Files: files})
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	data := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	f, err := svc.UploadBase64(context.Background(), "cert.png", data, domain.PurposeSickLeave, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(len(png)), f.Size)
	assert.Equal(t, "image/png", f.Type)
}

func TestUploadBase64_Invalid(t *testing.T) {
	svc := NewService(ServiceDeps{Objects: &mockObjects{}, Files: &mockFiles{}})
	_, err := svc.UploadBase64(context.Background(), "x.pdf", "!!not base64!!", domain.PurposeSickLeave, "a@x.com")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))

	_, err = svc.UploadBase64(context.Background(), "x.pdf", "", domain.PurposeSickLeave, "a@x.com")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

const storedID = "01HZX3K8Q4M2N7P5R6S9T0V1W2"

func TestLink_MalformedIDSkipsStore(t *testing.T) {
	files := &mockFiles{}
	svc := NewService(ServiceDeps{Objects: &mockObjects{}, Files: files})

	_, err := svc.Link(context.Background(), "../../etc", time.Minute)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	files.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestDownload_DisabledIsNotFound(t *testing.T) {
	files := &mockFiles{}
	files.On("Get", mock.Anything, storedID).Return(&domain.File{FileID: storedID, Enable: false}, nil)
	svc := NewService(ServiceDeps{Objects: &mockObjects{}, Files: files})

	_, _, err := svc.Download(context.Background(), storedID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete_RemovesObjectThenRow(t *testing.T) {
	objs, files := &mockObjects{}, &mockFiles{}
	files.On("Get", mock.Anything, storedID).Return(&domain.File{FileID: storedID, Object: "leaves/"+storedID+"/a.pdf", Enable: true}, nil)
	objs.On("Delete", mock.Anything, "leaves/"+storedID+"/a.pdf").Return(nil)
	files.On("SoftDelete", mock.Anything, storedID).Return(nil)

	svc := NewService(ServiceDeps{Objects: objs, Files: files})
	require.NoError(t, svc.Delete(context.Background(), storedID))
	objs.AssertExpectations(t)
	files.AssertExpectations(t)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "my_file_1_.pdf", sanitizeFilename("my file(1).pdf"))
	assert.Equal(t, "_", sanitizeFilename(""))
}
