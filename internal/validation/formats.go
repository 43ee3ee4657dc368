package validation

import (
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// rfc3339Checker accepts only the timestamp layout that time.Time decodes.
// The stock date-time checker also lets bare dates and clock times through.
type rfc3339Checker struct{}

func (rfc3339Checker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return false
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

func init() {
	gojsonschema.FormatCheckers.Add("date-time", rfc3339Checker{})
}
