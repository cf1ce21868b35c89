/*
Package resp provides helper functions for constructing and sending HTTP JSON responses.

Success responses carry endpoint-specific payloads (for example {"status":"success"}
or {"matches":[...]}); error responses carry a single {"error": message} object whose
HTTP status comes from the CustomError taxonomy.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"moodlink/internal/pkg/errs"
	"moodlink/internal/pkg/logx"
)

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	// Error is the human-readable failure description. For persistence failures
	// this is the raw underlying error message.
	Error string `json:"error"`
}

// RespondJSON is a generic response function used to set the Content-Type and send
// the JSON payload.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondSuccess sends an HTTP 200 response with the given payload.
func RespondSuccess(w http.ResponseWriter, r *http.Request, payload any) {
	RespondJSON(w, r, http.StatusOK, payload)
}

// RespondStatusOK sends the plain {"status":"success"} acknowledgement body.
func RespondStatusOK(w http.ResponseWriter, r *http.Request) {
	RespondSuccess(w, r, map[string]string{"status": "success"})
}

// RespondError sends an HTTP response containing custom error information.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	RespondJSON(w, r, customErr.Status, ErrorResponse{Error: customErr.Message})
}
