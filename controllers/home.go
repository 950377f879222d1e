package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/billow-homes/homes-api/models"
	"github.com/billow-homes/homes-api/services"
	"github.com/billow-homes/homes-api/uploads"
	"github.com/gorilla/mux"
)

type HomeDeps struct {
	Service *services.HomeService
	Stager  *uploads.Stager
	// PublicBaseURL overrides the scheme://host derived from the request
	// when image paths are made absolute.
	PublicBaseURL string
}

type updateRequest struct {
	StreetQuery string `json:"streetQuery"`
	models.HomePatch
}

type deleteRequest struct {
	StreetQuery string `json:"streetQuery"`
}

func GetHomes(d HomeDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		page, err := intParam(query.Get("page"), "page")
		if err != nil {
			WriteError(w, r, err)
			return
		}
		limit, err := intParam(query.Get("limit"), "limit")
		if err != nil {
			WriteError(w, r, err)
			return
		}

		result, err := d.Service.List(r.Context(), page, limit)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, result)
	}
}

func GetHome(d HomeDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		home, err := d.Service.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, home)
	}
}

func SearchHomes(d HomeDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := mux.Vars(r)["term"]

		homes, err := d.Service.Search(r.Context(), term)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		if len(homes) == 0 {
			writeJSON(w, r, http.StatusNotFound, models.APIResponse{
				Message: fmt.Sprintf("No homes found matching %q", services.Sanitize(term)),
			})
			return
		}
		writeJSON(w, r, http.StatusOK, homes)
	}
}

func CreateHome(d HomeDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !uploads.IsMultipart(r) {
			WriteError(w, r, &models.ValidationError{Message: "expected a multipart/form-data body"})
			return
		}
		if err := d.Stager.ParseForm(w, r); err != nil {
			WriteError(w, r, err)
			return
		}
		if err := requireImages(r); err != nil {
			WriteError(w, r, err)
			return
		}

		home, err := newFormReader(r.MultipartForm.Value).home()
		if err != nil {
			WriteError(w, r, err)
			return
		}
		// Check the listing fields before any image is written.
		pending := home
		for _, field := range models.ImageFields {
			pending.SetImage(field, r.MultipartForm.File[field][0].Filename)
		}
		if err := pending.Validate(); err != nil {
			WriteError(w, r, err)
			return
		}

		files, err := d.Stager.Stage(r.Context(), r)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		created, err := d.Service.Create(r.Context(), home, files, d.baseURL(r))
		if err != nil {
			WriteError(w, r, err)
			return
		}

		log.Printf("Home %s created on %q by %v", created.ID.Hex(), created.Street, r.Context().Value(UserIDKey))
		writeJSON(w, r, http.StatusCreated, models.APIResponse{Message: "New home created!", Data: created})
	}
}

// UpdateHome accepts either a JSON body or a multipart form carrying
// replacement images.
func UpdateHome(d HomeDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		files := models.UploadedFiles{}

		if uploads.IsMultipart(r) {
			if err := d.Stager.ParseForm(w, r); err != nil {
				WriteError(w, r, err)
				return
			}
			patch, err := newFormReader(r.MultipartForm.Value).patch()
			if err != nil {
				WriteError(w, r, err)
				return
			}
			req.StreetQuery = r.FormValue("streetQuery")
			req.HomePatch = patch

			// Reject the request before any replacement image is written.
			pending := patch
			for _, field := range models.ImageFields {
				if fhs := r.MultipartForm.File[field]; len(fhs) > 0 {
					pending.SetImage(field, fhs[0].Filename)
				}
			}
			if _, err := services.CheckUpdate(req.StreetQuery, pending); err != nil {
				WriteError(w, r, err)
				return
			}

			files, err = d.Stager.Stage(r.Context(), r)
			if err != nil {
				WriteError(w, r, err)
				return
			}
		} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Invalid update data: %v", err)
			WriteError(w, r, &models.ValidationError{Message: "invalid update data: " + err.Error()})
			return
		}

		home, err := d.Service.Update(r.Context(), req.StreetQuery, req.HomePatch, files, d.baseURL(r))
		if err != nil {
			WriteError(w, r, err)
			return
		}

		resp := models.APIResponse{Message: "Home updated!"}
		if home != nil {
			resp.Data = home
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

func DeleteHome(d HomeDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteRequest
		if uploads.IsMultipart(r) || strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			req.StreetQuery = r.FormValue("streetQuery")
		} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, &models.ValidationError{Message: "invalid delete data: " + err.Error()})
			return
		}

		if _, err := d.Service.Delete(r.Context(), req.StreetQuery); err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, models.APIResponse{Message: "Home deleted!"})
	}
}

func DeleteHomeByID(d HomeDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := d.Service.DeleteByID(r.Context(), mux.Vars(r)["id"]); err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, models.APIResponse{Message: "Home deleted!"})
	}
}

func (d HomeDeps) baseURL(r *http.Request) string {
	if d.PublicBaseURL != "" {
		return d.PublicBaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host
}

func requireImages(r *http.Request) error {
	missing := map[string]string{}
	for _, field := range models.ImageFields {
		if len(r.MultipartForm.File[field]) == 0 {
			missing[field] = "image is required"
		}
	}
	if len(missing) > 0 {
		return &models.ValidationError{Message: "all four listing images are required", Fields: missing}
	}
	return nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.ValidationError{
			Message: name + " must be an integer",
			Fields:  map[string]string{name: fmt.Sprintf("must be an integer, got %q", raw)},
		}
	}
	return n, nil
}
