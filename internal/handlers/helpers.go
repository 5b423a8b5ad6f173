package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/utils"
)

// parseIDParam extracts a numeric URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.NewBadRequestError("Invalid " + name + " parameter")
	}
	return id, nil
}

// formValue reads a multipart form field, reporting whether the field
// was present at all so updates can distinguish "unset" from "empty".
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// formFile reads the optional upload field from a multipart form. A
// missing file is not an error.
func formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(constants.FormFieldFile)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, utils.NewBadRequestError("Invalid file upload")
	}
	return file, header, nil
}

// parseMultipart parses the request body with the configured upload
// size limit.
func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		return utils.NewBadRequestError("Invalid multipart form")
	}
	return nil
}

// saveUpload stores the optional upload with the given save function
// and returns the stored path, or empty when no file was sent.
func saveUpload(r *http.Request, save func(multipart.File, *multipart.FileHeader) (string, error)) (string, error) {
	file, header, err := formFile(r)
	if err != nil {
		return "", err
	}
	if file == nil {
		return "", nil
	}
	defer file.Close()

	return save(file, header)
}
