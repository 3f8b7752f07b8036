package apiserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"testgram/internal/config"
	"testgram/internal/logging"
	"testgram/internal/middleware"
	"testgram/internal/models"
	"testgram/internal/services"
	"testgram/internal/storage"
)

// TimeLayout is the wire format of every timestamp (UTC, second precision).
const TimeLayout = "2006-01-02T15:04:05"

// ErrorResponse 是 API 错误响应的通用结构体。
type ErrorResponse struct {
	Error string `json:"error"`
}

// Paginated wraps one page of a list endpoint.
type Paginated struct {
	Count    int64       `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Results  interface{} `json:"results"`
}

// UserBrief is the nested author of posts and comments.
type UserBrief struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func userBrief(u *models.User) UserBrief {
	if u == nil {
		return UserBrief{}
	}
	return UserBrief{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// writeJSONResponse 是一个辅助函数，用于发送 JSON 响应。
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logging.Log.WithError(err).Error("encoding JSON response")
		}
	}
}

// writeJSONError 是一个辅助函数，用于发送 JSON 格式的错误响应。
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONResponse(w, statusCode, ErrorResponse{Error: message})
}

// writeServiceError maps the service error taxonomy to HTTP statuses.
// Unexpected errors are logged and hidden behind a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		writeJSONError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrValidation):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrUnauthenticated):
		writeJSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, services.ErrConflict):
		writeJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrUnavailable):
		writeJSONError(w, err.Error(), http.StatusServiceUnavailable)
	default:
		logging.Log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": middleware.GetRequestIDFromContext(r.Context()),
		}).WithError(err).Error("request failed")
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", services.ErrValidation, err)
	}
	return nil
}

// requireUserID returns the authenticated caller or writes 401.
func requireUserID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok || userID == 0 {
		writeJSONError(w, "authentication credentials were not provided", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// pathID parses the {id} route variable. Non-numeric ids cannot exist, so
// they answer 404 like any other unknown id.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := storage.StrToUint(mux.Vars(r)["id"])
	if err != nil || id == 0 {
		writeJSONError(w, "not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// pageRequest is the parsed ?page=&page_size= pair.
type pageRequest struct {
	Page     int
	PageSize int
}

func (p pageRequest) window() storage.Page {
	return storage.Page{Limit: p.PageSize, Offset: (p.Page - 1) * p.PageSize}
}

func (p pageRequest) wrap(total int64, results interface{}) Paginated {
	return Paginated{Count: total, Page: p.Page, PageSize: p.PageSize, Results: results}
}

func parsePage(r *http.Request, cfg config.PaginationConfig) (pageRequest, error) {
	p := pageRequest{Page: 1, PageSize: cfg.DefaultPageSize}
	if p.PageSize <= 0 {
		p.PageSize = 10
	}
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, fmt.Errorf("%w: invalid page %q", services.ErrValidation, v)
		}
		p.Page = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, fmt.Errorf("%w: invalid page_size %q", services.ErrValidation, v)
		}
		p.PageSize = n
	}
	if cfg.MaxPageSize > 0 && p.PageSize > cfg.MaxPageSize {
		p.PageSize = cfg.MaxPageSize
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return p, fmt.Errorf("%w: page %d is out of range", services.ErrValidation, p.Page)
	}
	return p, nil
}
