package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/resenas-io/resenas/internal/models"
)

// anonymousAuthor is stored when the session token carries no name claim.
const anonymousAuthor = "Anónimo"

const maxUploadMemory = 32 << 20

// ListReviewsHandler returns every review, unfiltered. Any valid session may
// call this; there is no ownership model.
func (api *Api) ListReviewsHandler(w http.ResponseWriter, r *http.Request) {
	reviews, err := api.Deps.Reviews.ListReviews(r.Context())
	if err != nil {
		log.Printf("Failed to list reviews: %v", err)
		http.Error(w, "Failed to list reviews", http.StatusInternalServerError)
		return
	}

	views := make([]models.ReviewView, 0, len(reviews))
	for i := range reviews {
		views = append(views, reviews[i].View())
	}

	writeJSON(w, http.StatusOK, views)
}

// CreateReviewHandler accepts a multipart form with establishment, address,
// rating and one or more image files. Images are uploaded first (any failure
// aborts the request), then the address is geocoded best-effort, then the
// record is assembled from the session claims and stored.
func (api *Api) CreateReviewHandler(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	establishment := r.FormValue("establishment")
	address := r.FormValue("address")
	ratingStr := r.FormValue("rating")
	if establishment == "" || address == "" || ratingStr == "" {
		http.Error(w, "establishment, address and rating are required", http.StatusBadRequest)
		return
	}
	rating, err := strconv.Atoi(ratingStr)
	if err != nil {
		http.Error(w, "rating must be an integer", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		// Older clients send a single image under "file".
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		http.Error(w, "at least one image file is required", http.StatusBadRequest)
		return
	}

	// Upload sequentially in input order. The first failure fails the whole
	// request; images already uploaded are not cleaned up.
	imageURLs := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "Failed to read uploaded file", http.StatusInternalServerError)
			return
		}
		url, err := api.Deps.Images.Upload(r.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
		f.Close()
		if err != nil {
			log.Printf("Failed to upload image %s: %v", fh.Filename, err)
			http.Error(w, "Failed to upload image", http.StatusInternalServerError)
			return
		}
		imageURLs = append(imageURLs, url)
	}

	// Best-effort: a failed lookup stores (0, 0) and the request still
	// succeeds.
	lat, lon := api.Deps.Geocoder.Lookup(r.Context(), address)

	authorName := session.Name
	if authorName == "" {
		authorName = anonymousAuthor
	}

	review := &models.Review{
		Establishment:  establishment,
		Address:        address,
		Rating:         rating,
		ImageURLs:      imageURLs,
		Latitude:       lat,
		Longitude:      lon,
		AuthorEmail:    session.Email,
		AuthorName:     authorName,
		TokenIssuedAt:  unixOrZero(session.IssuedAt),
		TokenExpiresAt: unixOrZero(session.ExpiresAt),
		RawToken:       session.RawToken,
	}

	if _, err := api.Deps.Reviews.InsertReview(r.Context(), review); err != nil {
		log.Printf("Failed to store review: %v", err)
		http.Error(w, "Failed to store review", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, review.View())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
