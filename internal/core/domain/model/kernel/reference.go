package kernel

import (
	"fmt"
	"strconv"
	"strings"

	"loadboard/internal/pkg/errs"
	"loadboard/internal/pkg/guard"
)

// ReferencePrefix starts every public shipment reference.
const ReferencePrefix = "UTI-"

var (
	// ErrReferenceIsNotConstructed is returned when a zero Reference is used.
	ErrReferenceIsNotConstructed = errs.NewValueIsRequiredError(
		"reference must be created via NewReference or ParseReference")

	// ErrReferenceIsMalformed is wrapped by every ParseReference failure so callers
	// can tell a bad reference apart from other invalid input.
	ErrReferenceIsMalformed = errs.NewValueIsInvalidError("reference")
)

// Reference is the public identifier of a load, "UTI-" followed by the decimal load id.
//
//	ref, err := kernel.ParseReference("UTI-42")
//	// ref.LoadID() == 42, ref.String() == "UTI-42"
type Reference struct {
	loadID ID
	guard  guard.ConstructorGuard
}

// NewReference builds the reference of an existing load.
func NewReference(loadID ID) (Reference, error) {
	if err := loadID.Validate(); err != nil {
		return Reference{}, err
	}
	return Reference{
		loadID: loadID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// ParseReference accepts only the exact "UTI-<positive decimal>" form. Surrounding
// whitespace is ignored, the prefix is case sensitive.
func ParseReference(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Reference{}, errs.NewValueIsRequiredError("reference")
	}

	digits, ok := strings.CutPrefix(s, ReferencePrefix)
	if !ok {
		return Reference{}, fmt.Errorf("%w: %q has no %s prefix", ErrReferenceIsMalformed, s, ReferencePrefix)
	}
	if digits == "" || strings.ContainsFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) {
		return Reference{}, fmt.Errorf("%w: %q has a non-numeric suffix", ErrReferenceIsMalformed, s)
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n <= 0 {
		return Reference{}, fmt.Errorf("%w: %q does not name a load", ErrReferenceIsMalformed, s)
	}

	return NewReference(ID(n))
}

func (r Reference) Validate() error {
	return r.guard.Validate(ErrReferenceIsNotConstructed)
}

// LoadID returns the identity of the referenced load.
func (r Reference) LoadID() ID {
	return r.loadID
}

func (r Reference) String() string {
	return ReferencePrefix + r.loadID.String()
}
