package services

import (
	"net/url"
	"strings"

	"github.com/billow-homes/homes-api/models"
)

// ReviseImagePaths returns a copy of patch in which every image field with
// a matching upload points at the uploaded file's public URI. Fields without
// an upload keep whatever the caller supplied.
func ReviseImagePaths(files models.UploadedFiles, baseURL string, patch models.HomePatch) models.HomePatch {
	revised := patch
	for _, field := range models.ImageFields {
		file, ok := files[field]
		if !ok {
			continue
		}
		revised.SetImage(field, PublicURI(baseURL, file.StoragePath))
	}
	return revised
}

// PublicURI prefixes a relative storage path with baseURL. Absolute URLs,
// as returned by object storage, pass through unchanged.
func PublicURI(baseURL, storagePath string) string {
	if u, err := url.Parse(storagePath); err == nil && u.IsAbs() {
		return storagePath
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(storagePath, "/")
}
