package errors

import (
	"errors"
	"fmt"
)

// CodeList is an error that wraps one or more packed codes.
type CodeList []Code //nolint:errname // the list itself is the error value.

// Error returns a compact summary of the codes.
func (l CodeList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].String()
	default:
		return fmt.Sprintf("%s (and %d more)", l[0].String(), len(l)-1)
	}
}

// Has reports whether any code in l resolves to kind.
func (l CodeList) Has(kind Kind) bool {
	for _, c := range l {
		if k := c.Kind(); k != nil && k.Category() == kind.Category() && k.Type() == kind.Type() {
			return true
		}
	}
	return false
}

// AsCodes extracts the codes from an error returned by a processor.
func AsCodes(err error) ([]Code, bool) {
	if err == nil {
		return nil, false
	}
	var list CodeList
	if errors.As(err, &list) {
		return []Code(list), true
	}
	var listPtr *CodeList
	if errors.As(err, &listPtr) && listPtr != nil {
		return *listPtr, true
	}
	return nil, false
}
