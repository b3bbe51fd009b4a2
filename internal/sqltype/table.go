package sqltype

import "github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dicom/vr"

// entry is one row of a mapping table. unit is the column length per value;
// zero means the type carries no length.
type entry struct {
	typ  string
	unit int64
}

func (e entry) column(vm int) Column {
	if e.unit == 0 {
		return Column{Type: e.typ}
	}
	return Column{Type: e.typ, Length: e.unit * int64(vm)}
}

// native is the Native policy table.
//
// PN allows three component groups of 64 characters at two bytes each. SH
// allows 16 characters at up to two bytes each.
var native = map[vr.Code]entry{
	vr.AE: {TypeVarchar, 16},
	vr.AS: {TypeChar, 4},
	vr.AT: {TypeChar, 4},
	vr.CS: {TypeVarchar, 16},
	vr.DA: {TypeDate, 0},
	vr.DS: {TypeDecimal, 16},
	vr.DT: {TypeDatetime, 0},
	vr.FD: {TypeDouble, 0},
	vr.FL: {TypeFloat, 0},
	vr.IS: {TypeInt, 0},
	vr.LO: {TypeVarchar, 64},
	vr.LT: {TypeLongblob, 0},
	vr.PN: {TypeVarchar, 384},
	vr.SH: {TypeVarchar, 32},
	vr.SL: {TypeInt, 0},
	vr.SS: {TypeSmallint, 0},
	vr.ST: {TypeBlob, 0},
	vr.TM: {TypeTime, 0},
	vr.UI: {TypeVarchar, 64},
	vr.UL: {TypeInt, 0},
	vr.UN: {TypeLongblob, 0},
	vr.US: {TypeSmallint, 0},
	vr.UT: {TypeLongblob, 0},
}

// stringOverrides replaces the Native entries that are not text-family.
// Lengths are the widest decimal rendering of one value.
var stringOverrides = map[vr.Code]entry{
	vr.DS: {TypeVarchar, 16},
	vr.FD: {TypeVarchar, 24},
	vr.FL: {TypeVarchar, 12},
	vr.IS: {TypeVarchar, 12},
	vr.LT: {TypeLongtext, 0},
	vr.SL: {TypeVarchar, 12},
	vr.SS: {TypeVarchar, 6},
	vr.ST: {TypeText, 0},
	vr.UL: {TypeVarchar, 64},
	vr.UN: {TypeLongtext, 0},
	vr.US: {TypeVarchar, 6},
	vr.UT: {TypeLongtext, 0},
}

// stringOnly is native merged with stringOverrides.
var stringOnly map[vr.Code]entry

func init() {
	stringOnly = make(map[vr.Code]entry, len(native))
	for c, e := range native {
		stringOnly[c] = e
	}
	for c, e := range stringOverrides {
		stringOnly[c] = e
	}
}

func lookup(code vr.Code, p Policy) (entry, bool) {
	var e entry
	var ok bool
	switch p {
	case StringOnly:
		e, ok = stringOnly[code]
	default:
		e, ok = native[code]
	}
	return e, ok
}

// Mapped returns the codes that have a table entry, in lexical order.
func Mapped() []vr.Code {
	out := make([]vr.Code, 0, len(native))
	for _, c := range vr.All() {
		if _, ok := native[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
