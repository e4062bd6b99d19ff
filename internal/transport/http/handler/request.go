package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	fileapp "github.com/campus-portal-api/internal/application/file"
)

// VerificationTokenHeader carries the token returned by verifyOtp.
const VerificationTokenHeader = "X-Verification-Token"

const maxMultipartMemory = 32 << 20

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// verificationToken prefers the header and falls back to the token sent
// in the body or form.
func verificationToken(r *http.Request, fromBody string) string {
	if h := strings.TrimSpace(r.Header.Get(VerificationTokenHeader)); h != "" {
		return h
	}
	return strings.TrimSpace(fromBody)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formFile returns the named upload or nil when the field is absent. The
// caller closes the returned file.
func formFile(r *http.Request, field string) (*fileapp.UploadInput, multipart.File, error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &fileapp.UploadInput{
		Reader:      f,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, f, nil
}

// formFiles returns every upload under field. The caller closes them.
func formFiles(r *http.Request, field string) ([]fileapp.UploadInput, []multipart.File, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	var inputs []fileapp.UploadInput
	var open []multipart.File
	for _, header := range r.MultipartForm.File[field] {
		f, err := header.Open()
		if err != nil {
			closeAll(open)
			return nil, nil, err
		}
		open = append(open, f)
		inputs = append(inputs, fileapp.UploadInput{
			Reader:      f,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		})
	}
	return inputs, open, nil
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
