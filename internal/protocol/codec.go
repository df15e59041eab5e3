package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Codec errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrParse           = errors.New("malformed response")
)

// maxSetValue is the largest value that fits the 12-digit field.
const maxSetValue int64 = 999_999_999_999

// stripper removes every bracket and quote, not only the wrapping ones.
// A value containing these characters cannot survive decoding; the stove
// is not known to send any.
var stripper = strings.NewReplacer("[", "", "]", "", `"`, "")

// DataQuery returns the frame requesting normal data.
func DataQuery() []byte { return []byte(dataQuery) }

// ErrorQuery returns the frame requesting the error report.
func ErrorQuery() []byte { return []byte(errorQuery) }

// EncodeSetValue builds ["SEC","1","B<pointID><value:12>"].
func EncodeSetValue(pointID string, value int64) ([]byte, error) {
	if pointID == "" {
		return nil, fmt.Errorf("%w: empty point id", ErrInvalidArgument)
	}
	if value < 0 || value > maxSetValue {
		return nil, fmt.Errorf("%w: value %d does not fit %d digits", ErrInvalidArgument, value, setValueWidth)
	}
	return []byte(fmt.Sprintf(`["SEC","1","B%s%0*d"]`, pointID, setValueWidth, value)), nil
}

// DecodeResponse turns a raw reply into comma separated tokens.
func DecodeResponse(raw []byte) []string {
	return strings.Split(stripper.Replace(string(raw)), ",")
}
