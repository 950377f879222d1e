package models

// UploadedFile describes one image staged to durable storage.
type UploadedFile struct {
	FieldName    string `json:"fieldName"`
	StoragePath  string `json:"storagePath"`
	OriginalName string `json:"originalName"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
}

// UploadedFiles is keyed by form field name.
type UploadedFiles map[string]UploadedFile
