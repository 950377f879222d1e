package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/billow-homes/homes-api/models"
	"github.com/dustin/go-humanize"
)

// DefaultMaxBytes caps a multipart request body: four images plus fields.
const DefaultMaxBytes = 32 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Stager parses multipart listing requests and saves their images.
type Stager struct {
	Storage  Storage
	MaxBytes int64
	Now      func() time.Time
}

func NewStager(storage Storage, maxBytes int64) *Stager {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Stager{Storage: storage, MaxBytes: maxBytes, Now: time.Now}
}

// ParseForm reads the multipart body of r, leaving form values on
// r.MultipartForm. It is a no-op for non-multipart requests.
func (s *Stager) ParseForm(w http.ResponseWriter, r *http.Request) error {
	if !IsMultipart(r) {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxBytes)
	if err := r.ParseMultipartForm(s.MaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &models.ValidationError{Message: "request body exceeds " + humanize.IBytes(uint64(s.MaxBytes))}
		}
		return &models.ValidationError{Message: "invalid multipart body: " + err.Error()}
	}
	return nil
}

// Stage saves the first file of every recognised image field. Fields
// without a file are simply absent from the result.
func (s *Stager) Stage(ctx context.Context, r *http.Request) (models.UploadedFiles, error) {
	files := models.UploadedFiles{}
	if r.MultipartForm == nil {
		return files, nil
	}

	for _, field := range models.ImageFields {
		headers := r.MultipartForm.File[field]
		if len(headers) == 0 {
			continue
		}
		uploaded, err := s.save(ctx, field, headers[0])
		if err != nil {
			return nil, err
		}
		log.Printf("Staged %s as %s (%s)", field, uploaded.StoragePath, humanize.IBytes(uint64(uploaded.Size)))
		files[field] = uploaded
	}
	return files, nil
}

func (s *Stager) save(ctx context.Context, field string, fh *multipart.FileHeader) (models.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	sniff := make([]byte, 512)
	n, err := io.ReadFull(f, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return models.UploadedFile{}, fmt.Errorf("read %s: %w", field, err)
	}
	contentType := http.DetectContentType(sniff[:n])
	if !allowedTypes[contentType] {
		return models.UploadedFile{}, &models.ValidationError{
			Message: fmt.Sprintf("%s must be a jpeg, png, gif or webp image", field),
			Fields:  map[string]string{field: "unsupported content type " + contentType},
		}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return models.UploadedFile{}, fmt.Errorf("rewind %s: %w", field, err)
	}

	name := ObjectName(fh.Filename, s.Now())
	storagePath, err := s.Storage.Save(ctx, name, f, contentType)
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("store %s: %w", field, err)
	}

	return models.UploadedFile{
		FieldName:    field,
		StoragePath:  storagePath,
		OriginalName: fh.Filename,
		ContentType:  contentType,
		Size:         fh.Size,
	}, nil
}

// IsMultipart reports whether r carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
