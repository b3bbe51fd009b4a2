package sqltype

import (
	"errors"
	"fmt"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dicom/vr"
)

var (
	// ErrInvalidMultiplicity matches any *InvalidMultiplicityError.
	ErrInvalidMultiplicity = errors.New("sqltype: invalid value multiplicity")
	// ErrUnsupportedRepresentation matches any *UnsupportedRepresentationError.
	ErrUnsupportedRepresentation = errors.New("sqltype: unsupported value representation")
)

// InvalidMultiplicityError is returned when VM is zero or negative.
type InvalidMultiplicityError struct {
	VM int
}

func (e *InvalidMultiplicityError) Error() string {
	return fmt.Sprintf("sqltype: invalid value multiplicity %d: must be > 0", e.VM)
}

func (e *InvalidMultiplicityError) Is(target error) bool {
	return target == ErrInvalidMultiplicity
}

// UnsupportedRepresentationError is returned for VRs that carry binary or
// nested content (OB, OF, OW, SQ) and for codes without a mapping.
type UnsupportedRepresentationError struct {
	VR vr.Code
}

func (e *UnsupportedRepresentationError) Error() string {
	return fmt.Sprintf("sqltype: value representation %q has no column mapping", string(e.VR))
}

func (e *UnsupportedRepresentationError) Is(target error) bool {
	return target == ErrUnsupportedRepresentation
}

// excluded VRs are not searchable as scalar column data.
var excluded = map[vr.Code]struct{}{
	vr.OB: {},
	vr.OF: {},
	vr.OW: {},
	vr.SQ: {},
}

// Resolve maps (code, vm) to a column type under policy p.
//
// Validation runs first: vm <= 0 fails with *InvalidMultiplicityError, and
// OB/OF/OW/SQ fail with *UnsupportedRepresentationError. Otherwise exactly
// one table entry determines the result; lengths scale linearly with vm.
//
// When a catalog code has no entry and vm is vr.Unbounded, the result is a
// bare BLOB. The fallback never replaces a code-specific entry. Codes outside
// the catalog ("See Note", empty) are always unsupported.
func Resolve(code vr.Code, vm int, p Policy) (Column, error) {
	if vm <= 0 {
		return Column{}, &InvalidMultiplicityError{VM: vm}
	}
	if _, ok := excluded[code]; ok {
		return Column{}, &UnsupportedRepresentationError{VR: code}
	}

	e, ok := lookup(code, p)
	if !ok {
		if vm == vr.Unbounded && code.Known() {
			return Column{Type: TypeBlob}, nil
		}
		return Column{}, &UnsupportedRepresentationError{VR: code}
	}
	return e.column(vm), nil
}
