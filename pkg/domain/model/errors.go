package model

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

// Error tags for assignment loading failures. Both abort the whole load.
var (
	ErrTagMalformedRow     = goerr.NewTag("malformed_row")
	ErrTagUnrecognizedDate = goerr.NewTag("unrecognized_date")
)

// IsInputError reports whether err was caused by bad assignment input
// rather than by the system itself
func IsInputError(err error) bool {
	return goerr.HasTag(err, ErrTagMalformedRow) || goerr.HasTag(err, ErrTagUnrecognizedDate)
}

// InputErrorKind returns the tag name of an input error, or empty string
func InputErrorKind(err error) string {
	switch {
	case goerr.HasTag(err, ErrTagMalformedRow):
		return ErrTagMalformedRow.String()
	case goerr.HasTag(err, ErrTagUnrecognizedDate):
		return ErrTagUnrecognizedDate.String()
	default:
		return ""
	}
}

// InputErrorMessage renders an input error as a single user-facing line
// naming the offending source line
func InputErrorMessage(err error) string {
	values := goerr.Values(err)
	line, _ := values["line"].(int)

	switch {
	case goerr.HasTag(err, ErrTagUnrecognizedDate):
		value, _ := values["value"].(string)
		return fmt.Sprintf("Unrecognized date at line %d: '%s'", line, value)
	case goerr.HasTag(err, ErrTagMalformedRow):
		content, _ := values["content"].(string)
		return fmt.Sprintf("Invalid CSV format at line %d: '%s'", line, content)
	default:
		return err.Error()
	}
}
