package types

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/openkis/gokis/pkg/repr"
)

// AccountNumber is a brokerage account: an 8-digit base number plus a
// 2-digit product code. The wire form is either "12345678-01" or the
// 10 digits run together.
type AccountNumber struct {
	Number  string
	Product string
}

// ParseAccountNumber accepts "NNNNNNNN-PP" or "NNNNNNNNPP".
func ParseAccountNumber(s string) (AccountNumber, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '-'); i >= 0 {
		num, prod := s[:i], s[i+1:]
		if len(num) != 8 || len(prod) != 2 {
			return AccountNumber{}, errors.Errorf("invalid account number %q", s)
		}
		return AccountNumber{Number: num, Product: prod}, nil
	}
	if len(s) != 10 {
		return AccountNumber{}, errors.Errorf("invalid account number %q", s)
	}
	return AccountNumber{Number: s[:8], Product: s[8:]}, nil
}

// String renders the dashed form.
func (a AccountNumber) String() string {
	return a.Number + "-" + a.Product
}

// IsZero reports whether the account is unset.
func (a AccountNumber) IsZero() bool {
	return a.Number == "" && a.Product == ""
}

func (a AccountNumber) TypeName() string { return "AccountNumber" }

func (a AccountNumber) FieldNames() []string { return []string{"number", "product"} }

func (a AccountNumber) Field(name string) (any, bool) {
	switch name {
	case "number":
		return a.Number, true
	case "product":
		return a.Product, true
	}
	return nil, false
}

var _ repr.Record = AccountNumber{}
