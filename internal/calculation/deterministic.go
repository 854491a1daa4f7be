package calculation

import (
	"time"

	"github.com/google/uuid"
)

// nowFunc stamps reports (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests). Nil restores time.Now.
func SetNowFunc(f func() time.Time) {
	if f == nil {
		f = time.Now
	}
	nowFunc = f
}

func newReportID() string { return uuid.New().String() }

// idFunc returns a report identifier.
var idFunc = newReportID

// SetIDFunc overrides the report ID provider (use only in tests). Nil restores random UUIDs.
func SetIDFunc(f func() string) {
	if f == nil {
		f = newReportID
	}
	idFunc = f
}
