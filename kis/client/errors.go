package client

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound marks lookups for symbols the venue does not know.
var ErrNotFound = errors.New("not found")

// APIError is a broker-level failure: the HTTP exchange succeeded but the
// response carried a non-zero return code.
type APIError struct {
	StatusCode int
	ReturnCode string // rt_cd, "0" means success
	MessageCd  string // msg_cd
	Message    string // msg1
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s (%s): %s", e.ReturnCode, e.MessageCd, e.Message)
}

// IsAPIError unwraps err into an APIError when one is in the chain.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
