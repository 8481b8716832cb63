package http

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/az00102/EpicEscape-Server/internal/model"
)

// maxPackageUploadBytes caps the in-memory buffer for package image uploads.
const maxPackageUploadBytes = 32 << 20

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := s.store.ListPackages(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list packages")
		return
	}
	writeJSON(w, http.StatusOK, packages)
}

func (s *Server) handleSamplePackages(w http.ResponseWriter, r *http.Request) {
	size := parseLimit(r, 3)
	packages, err := s.store.SamplePackages(r.Context(), size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to sample packages")
		return
	}
	writeJSON(w, http.StatusOK, packages)
}

func (s *Server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	packageID, err := parseObjectID(chi.URLParam(r, "packageId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "package id is not a valid identifier")
		return
	}
	pkg, err := s.store.GetPackage(r.Context(), packageID)
	if err != nil {
		writeStoreError(w, err, "package_not_found", "Package not found")
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

// handleGetPackageImage streams one of the image blobs stored inside the
// package document.
func (s *Server) handleGetPackageImage(w http.ResponseWriter, r *http.Request) {
	packageID, err := parseObjectID(chi.URLParam(r, "packageId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "package id is not a valid identifier")
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "invalid_index", "image index must be a non-negative integer")
		return
	}
	pkg, err := s.store.GetPackage(r.Context(), packageID)
	if err != nil {
		writeStoreError(w, err, "package_not_found", "Package not found")
		return
	}
	if index >= len(pkg.Images) {
		writeError(w, http.StatusNotFound, "image_not_found", "no image at this index")
		return
	}
	image := pkg.Images[index]
	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(image.Data)
}

// handleCreatePackage accepts a multipart form with the package fields plus
// an images file array; the files are buffered fully in memory and stored as
// binary blobs inside the package document.
func (s *Server) handleCreatePackage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPackageUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_multipart", "body must be a multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	tourType := strings.TrimSpace(r.FormValue("tourType"))
	priceRaw := strings.TrimSpace(r.FormValue("price"))
	if title == "" || tourType == "" || priceRaw == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "title, tourType, and price are required")
		return
	}
	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil || price <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_price", "price must be a positive decimal")
		return
	}

	pkg := model.Package{
		Title:       title,
		TourType:    tourType,
		Price:       price,
		Duration:    strings.TrimSpace(r.FormValue("duration")),
		Description: r.FormValue("description"),
		Plan:        r.MultipartForm.Value["plan"],
		CreatedAt:   time.Now().UTC(),
	}

	for _, header := range r.MultipartForm.File["images"] {
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_upload", "could not read uploaded image")
			return
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_upload", "could not read uploaded image")
			return
		}
		pkg.Images = append(pkg.Images, model.PackageImage{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	id, err := s.store.CreatePackage(r.Context(), pkg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to create package")
		return
	}
	pkg.ID = id
	writeJSON(w, http.StatusCreated, pkg)
}

func (s *Server) handleDeletePackage(w http.ResponseWriter, r *http.Request) {
	packageID, err := parseObjectID(chi.URLParam(r, "packageId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "package id is not a valid identifier")
		return
	}
	if err := s.store.DeletePackage(r.Context(), packageID); err != nil {
		writeStoreError(w, err, "package_not_found", "Package not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
