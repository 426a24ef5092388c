// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/log"
)

var logger = log.WithContext("pkg", "api")

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

func (e *httpError) Unwrap() error {
	return e.cause
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

// NotFound convenience method to create http not found error.
func NotFound(cause error) error {
	return HTTPError(cause, http.StatusNotFound)
}

// RevertStatus maps the category of a rejected operation onto a http status.
func RevertStatus(rev *reverts.ErrRevert) int {
	switch rev.Category() {
	case reverts.CategoryInput:
		return http.StatusBadRequest
	case reverts.CategoryAuthorization:
		return http.StatusForbidden
	case reverts.CategoryState:
		if rev.Code() == reverts.ErrNotInitialized.Code() {
			return http.StatusNotFound
		}
		return http.StatusConflict
	case reverts.CategoryBusiness:
		return http.StatusConflict
	case reverts.CategoryArithmetic:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// ErrorBody is the JSON body of a failed request.
type ErrorBody struct {
	Code     string `json:"code,omitempty"`
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// a revert is responded with the status of its category,
// otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		body := ErrorBody{Message: err.Error()}

		var he *httpError
		if errors.As(err, &he) {
			status = he.status
		}
		if rev, ok := reverts.As(err); ok {
			if he == nil {
				status = RevertStatus(rev)
			}
			body.Code = rev.Code()
			body.Category = rev.Category().String()
		}
		if status == http.StatusInternalServerError {
			logger.Warn("request failed", "method", r.Method, "uri", r.URL.String(), "err", err)
			body.Message = "internal error"
		}
		w.Header().Set("Content-Type", JSONContentType)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any
