package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	cerrors "github.com/matzehuels/cornerstone/pkg/errors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code      cerrors.Code `json:"code"`
	Message   string       `json:"message"`
	RequestID string       `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code cerrors.Code) int {
	switch code {
	case cerrors.ErrCodeUnsatisfiable:
		return http.StatusUnprocessableEntity
	case cerrors.ErrCodeUnknownSuite, cerrors.ErrCodeInvalidInput,
		cerrors.ErrCodeInvalidFormat, cerrors.ErrCodeInvalidCatalog:
		return http.StatusBadRequest
	case cerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case cerrors.ErrCodeUnsupported:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	code := cerrors.GetCode(err)
	status := statusFor(code)
	body := ErrorBody{Code: code, Message: cerrors.UserMessage(err), RequestID: RequestID(r.Context())}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "request_id", body.RequestID, "path", r.URL.Path, "err", err)
		body.Code = cerrors.ErrCodeInternal
		body.Message = "internal error"
	}
	writeJSON(w, status, body)
}

func errNotFound(r *http.Request) error {
	return cerrors.New(cerrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func errMethod(r *http.Request) error {
	return cerrors.New(cerrors.ErrCodeUnsupported, "method %s not allowed on %s", r.Method, r.URL.Path)
}

// decodeJSON reads a single JSON object into v, rejecting unknown
// fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "request body too large")
		}
		return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}
