package client

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestPageTo(t *testing.T) {
	p := FirstPage(0).To(30)
	assert.Equal(t, 30, p.Size)
	assert.True(t, p.IsFirst())

	// oversized and non-positive requests clamp to the venue cap
	assert.Equal(t, MaxPageSize, FirstPage(0).To(500).Size)
	assert.Equal(t, MaxPageSize, FirstPage(0).To(0).Size)

	next := Page{Search: "fk", Key: "nk", Size: 100}
	assert.False(t, next.IsFirst())
	assert.Equal(t, "fk", next.To(50).Search)
}

func TestPageStatus(t *testing.T) {
	assert.True(t, pageStatus("F").hasNext())
	assert.True(t, pageStatus("M").hasNext())
	assert.False(t, pageStatus("D").hasNext())
	assert.False(t, pageStatus("E").hasNext())
	assert.False(t, pageStatus("").hasNext())
}

func TestContinuationHeader(t *testing.T) {
	assert.Equal(t, "", continuationHeader(FirstPage(100)))
	assert.Equal(t, "N", continuationHeader(Page{Search: "fk", Key: "nk"}))
}

func TestAPIErrorUnwrap(t *testing.T) {
	apiErr := &APIError{StatusCode: 200, ReturnCode: "1", MessageCd: "EGW00123", Message: "expired token"}
	wrapped := errors.Wrap(apiErr, "daily orders")

	got, ok := IsAPIError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "EGW00123", got.MessageCd)
	assert.Contains(t, apiErr.Error(), "EGW00123")

	_, ok = IsAPIError(errors.New("plain"))
	assert.False(t, ok)
}
