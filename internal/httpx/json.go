package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes mirrors the 100kb default body limit the clients were built against.
const MaxBodyBytes = 100 << 10

var (
	ErrUnsupportedMediaType = errors.New("content-type must be application/json")
	ErrTrailingData         = errors.New("request body must contain a single JSON value")
)

// WriteJSON writes v as the raw response body. Data responses carry no envelope.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError[T any](w http.ResponseWriter, status int, errBody ErrorResponse[T]) {
	errBody.Error = true
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errBody)
}

func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// ReadJSONBody enforces the JSON content type and size limit and returns the
// body bytes. It does not parse them, callers pick their own decoder.
func ReadJSONBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return nil, ErrUnsupportedMediaType
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	return io.ReadAll(r.Body)
}

// DecodeJSON reads a single JSON value from the request body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return ErrUnsupportedMediaType
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF { // check if there's any trailing data
		return ErrTrailingData
	}
	return nil
}

// WriteDecodeError maps a DecodeJSON/ReadJSONBody failure to a response.
func WriteDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUnsupportedMediaType) {
		WriteError(w, http.StatusUnsupportedMediaType, ErrorResponse[any]{
			Code:    ErrUnsupportedMedia,
			Message: "Content-Type must be application/json",
		})
		return
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		WriteError(w, http.StatusRequestEntityTooLarge, ErrorResponse[any]{
			Code:    ErrTooLarge,
			Message: "request body too large",
		})
		return
	}
	WriteError(w, http.StatusBadRequest, ErrorResponse[any]{
		Code:    ErrInvalidJSON,
		Message: "invalid request body",
	})
}
