package upload

import (
	"errors"
	"fmt"

	"github.com/datadash/backend/internal/models"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidRawFile is wrapped by every InvalidRawFileError.
var ErrInvalidRawFile = errors.New("invalid raw file")

// InvalidRawFileError reports a raw file that was left out of its batch.
type InvalidRawFileError struct {
	Index  int    // Position in the submitted batch
	Name   string
	Reason string
}

func (e *InvalidRawFileError) Error() string {
	return fmt.Sprintf("%v at index %d (%q): %s", ErrInvalidRawFile, e.Index, e.Name, e.Reason)
}

func (e *InvalidRawFileError) Unwrap() error {
	return ErrInvalidRawFile
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRawFile checks the boundary constraints on a raw file: a name
// must be present and the size must not be negative.
func validateRawFile(index int, raw models.RawFile) error {
	err := validate.Struct(raw)
	if err == nil {
		return nil
	}

	reason := err.Error()
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "required":
			reason = "name is required"
		case "min":
			reason = fmt.Sprintf("size must not be negative, got %d", raw.SizeBytes)
		default:
			reason = fmt.Sprintf("%s failed %s", verrs[0].Field(), verrs[0].Tag())
		}
	}

	return &InvalidRawFileError{Index: index, Name: raw.Name, Reason: reason}
}
