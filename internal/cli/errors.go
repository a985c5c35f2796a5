package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/user/orderdesk/internal/model"
)

// Error codes for structured error responses
const (
	ErrCodeOrderNotFound  = "ORDER_NOT_FOUND"
	ErrCodeFilterNotFound = "FILTER_NOT_FOUND"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeNotInitialized = "NOT_INITIALIZED"
	ErrCodeConfig         = "CONFIG_ERROR"
	ErrCodeStorage        = "STORAGE_ERROR"
)

// JSONError represents a structured error response for --json output
type JSONError struct {
	Error   bool                   `json:"error"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ExitWithError outputs an error message and exits.
// If --json flag is set, outputs structured JSON error to stdout.
// Otherwise outputs plain text to stderr.
func ExitWithError(code int, errCode, message string, details map[string]interface{}) {
	if GetJSONOutput() {
		errResp := JSONError{
			Error:   true,
			Code:    errCode,
			Message: message,
			Details: details,
		}
		data, _ := json.Marshal(errResp)
		fmt.Println(string(data))
	} else {
		fmt.Fprintln(os.Stderr, "Error:", message)
	}
	Exit(code)
}

// ExitOrderNotFound outputs an order not found error
func ExitOrderNotFound(ref string) {
	ExitWithError(1, ErrCodeOrderNotFound,
		fmt.Sprintf("order '%s' not found", ref),
		map[string]interface{}{"ref": ref})
}

// ExitFilterNotFound outputs a saved filter not found error
func ExitFilterNotFound(idOrName string) {
	ExitWithError(1, ErrCodeFilterNotFound,
		fmt.Sprintf("saved filter '%s' not found", idOrName),
		map[string]interface{}{"filter": idOrName})
}

// ExitValidationError outputs a validation error
func ExitValidationError(message string, details map[string]interface{}) {
	ExitWithError(2, ErrCodeValidation, message, details)
}

// ExitNotInitialized outputs an error when the data directory has no order file
func ExitNotInitialized() {
	ExitWithError(1, ErrCodeNotInitialized,
		"data directory not initialized (run 'orderdesk init')",
		nil)
}

// ExitConfigError outputs a configuration error
func ExitConfigError(err error) {
	ExitWithError(2, ErrCodeConfig, err.Error(), nil)
}

// validationErrors are the sentinels reported as VALIDATION_ERROR.
var validationErrors = []error{
	model.ErrInvalidRef,
	model.ErrInvalidStatus,
	model.ErrInvalidDelivery,
	model.ErrInvalidSortKey,
	model.ErrInvalidPageSize,
	model.ErrInvalidDate,
	model.ErrInvalidPrice,
	model.ErrInvalidPreset,
	model.ErrInvalidFormat,
	model.ErrRequiredField,
	model.ErrEmptyName,
}

// exitForError maps a domain error onto the matching exit path.
func exitForError(err error) {
	switch {
	case errors.Is(err, model.ErrNotInitialized):
		ExitNotInitialized()
	case errors.Is(err, model.ErrAlreadyInitialized):
		ExitWithError(1, ErrCodeConflict, "data directory already initialized (use --force to overwrite)", nil)
	case errors.Is(err, model.ErrDuplicateRef):
		ExitWithError(1, ErrCodeConflict, err.Error(), nil)
	case errors.Is(err, model.ErrOrderNotFound):
		ExitWithError(1, ErrCodeOrderNotFound, err.Error(), nil)
	case errors.Is(err, model.ErrSavedFilterNotFound):
		ExitWithError(1, ErrCodeFilterNotFound, err.Error(), nil)
	default:
		for _, target := range validationErrors {
			if errors.Is(err, target) {
				ExitValidationError(err.Error(), nil)
				return
			}
		}
		ExitWithError(1, ErrCodeStorage, err.Error(), nil)
	}
}
