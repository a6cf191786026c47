package models

import "errors"

// DataValidationError is returned for any invalid product data: malformed
// input during deserialization, unknown categories, unparsable prices, or
// updates of products that were never created.
type DataValidationError struct {
	Message string
}

func (e *DataValidationError) Error() string {
	return e.Message
}

// IsDataValidation reports whether err is, or wraps, a DataValidationError.
func IsDataValidation(err error) bool {
	var dve *DataValidationError
	return errors.As(err, &dve)
}
