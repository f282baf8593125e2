package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"assessment-cam/internal/asset"
)

// AssessmentIDLength is the number of digits in an assessment id.
const AssessmentIDLength = 6

// ErrInvalidAssessmentID reports an id that is not six ASCII digits.
var ErrInvalidAssessmentID = errors.New("assessment id must be exactly 6 digits")

// ValidateAssessmentID accepts an empty id (exported as NOID) or exactly six
// ASCII digits.
func ValidateAssessmentID(id string) error {
	if id == "" {
		return nil
	}
	if len(id) != AssessmentIDLength {
		return fmt.Errorf("%w: %q", ErrInvalidAssessmentID, id)
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidAssessmentID, id)
		}
	}
	return nil
}

// NormalizeAssessmentID trims surrounding space and cuts the id to six
// characters, the way the entry field limits typing.
func NormalizeAssessmentID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > AssessmentIDLength {
		id = id[:AssessmentIDLength]
	}
	return id
}

// Naming builds export filenames of the form
// assessment_{id}_{FOH|BOH}_{timestamp}{ext}.
type Naming struct {
	Now func() time.Time // defaults to time.Now
	Ext string           // defaults to ".jpg"
}

// FileName returns the filename for an export taken now.
func (n Naming) FileName(assessmentID string, side asset.Side) string {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	ext := n.Ext
	if ext == "" {
		ext = JPEGEncoder{}.Ext()
	}
	if assessmentID == "" {
		assessmentID = "NOID"
	}
	return fmt.Sprintf("assessment_%s_%s_%s%s", assessmentID, side.Code(), Timestamp(now()), ext)
}

// Timestamp formats t as UTC ISO-8601 with millisecond precision, with ':'
// and '.' replaced by '-' so it is safe in filenames.
func Timestamp(t time.Time) string {
	s := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer(":", "-", ".", "-").Replace(s)
}
