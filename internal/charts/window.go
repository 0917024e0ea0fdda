package charts

import (
	"fmt"
	"regexp"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
)

var blockDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ResolveWindow turns a yyyy-mm-dd date (empty means today in UTC) and an optional
// upper bound into a timestamp window. An upperBound of zero means one day after the start.
func ResolveWindow(blockDate string, upperBound int64, now time.Time) (model.Window, error) {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if blockDate != "" {
		if !blockDatePattern.MatchString(blockDate) {
			return model.Window{}, &ValidationError{
				Err: fmt.Errorf("%w: %q, use yyyy-mm-dd", model.ErrInvalidDate, blockDate),
			}
		}
		parsed, err := time.Parse(dateLayout, blockDate)
		if err != nil {
			return model.Window{}, &ValidationError{
				Err: fmt.Errorf("%w: %q: %v", model.ErrInvalidDate, blockDate, err),
			}
		}
		day = parsed
	}

	lower := day.Unix()
	upper := lower + secondsPerDay
	if upperBound != 0 {
		if upperBound < lower {
			return model.Window{}, &ValidationError{
				Err: fmt.Errorf("%w: upper bound %d precedes %d", model.ErrInvalidWindow, upperBound, lower),
			}
		}
		upper = upperBound
	}

	return model.Window{Lower: lower, Upper: upper}, nil
}
