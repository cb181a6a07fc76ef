package record

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/overlap/pkg/domain/model"
)

// DateStrategy is one way of reading a date cell
type DateStrategy struct {
	Name  string
	Parse func(s string) (time.Time, error)
}

func layout(name, goLayout string) DateStrategy {
	return DateStrategy{
		Name: name,
		Parse: func(s string) (time.Time, error) {
			return time.Parse(goLayout, s)
		},
	}
}

// DateStrategies are tried in order and the first success wins, so an
// ambiguous value such as 01/02/2020 is read day first.
var DateStrategies = []DateStrategy{
	layout("yyyy-MM-dd", "2006-01-02"),
	layout("yyyy/MM/dd", "2006/01/02"),
	layout("dd-MM-yyyy", "02-01-2006"),
	layout("dd/MM/yyyy", "02/01/2006"),
	layout("MM-dd-yyyy", "01-02-2006"),
	layout("MM/dd/yyyy", "01/02/2006"),
	layout("d-M-yyyy", "2-1-2006"),
	layout("d/M/yyyy", "2/1/2006"),
	layout("M-d-yyyy", "1-2-2006"),
	layout("M/d/yyyy", "1/2/2006"),
	layout("yyyy-MM-dd HH:mm:ss", "2006-01-02 15:04:05"),
	layout("yyyy/MM/dd HH:mm:ss", "2006/01/02 15:04:05"),
	layout("dd/MM/yyyy HH:mm:ss", "02/01/2006 15:04:05"),
	layout("MM/dd/yyyy HH:mm:ss", "01/02/2006 15:04:05"),
	{
		Name: "flexible",
		Parse: func(s string) (time.Time, error) {
			if isDigits(s) {
				return time.Time{}, goerr.New("bare number is not a date", goerr.V("value", s))
			}
			return dateparse.ParseIn(s, time.UTC)
		},
	},
}

// ParseDate reads a calendar date, discarding any time of day
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, goerr.New("empty date", goerr.T(model.ErrTagUnrecognizedDate))
	}

	for _, strategy := range DateStrategies {
		if t, err := strategy.Parse(s); err == nil {
			return model.DateOf(t), nil
		}
	}

	return time.Time{}, goerr.New("unrecognized date",
		goerr.T(model.ErrTagUnrecognizedDate),
		goerr.V("value", s))
}

// isDigits is true for values such as a bare year or epoch seconds, which
// the flexible reader would otherwise accept
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isOpenEnded reports whether a DateTo cell means "still assigned"
func isOpenEnded(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "NULL")
}
