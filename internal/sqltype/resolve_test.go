package sqltype

import (
	"errors"
	"sync"
	"testing"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dicom/vr"
)

// TestResolveScenarios covers concrete lookups under both policies.
func TestResolveScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		code   vr.Code
		vm     int
		policy Policy
		want   Column
	}{
		{name: "PN native", code: vr.PN, vm: 1, policy: Native, want: Column{"VARCHAR", 384}},
		{name: "DS native", code: vr.DS, vm: 2, policy: Native, want: Column{"DECIMAL", 32}},
		{name: "DS string", code: vr.DS, vm: 2, policy: StringOnly, want: Column{"VARCHAR", 32}},
		{name: "FD string", code: vr.FD, vm: 1, policy: StringOnly, want: Column{"VARCHAR", 24}},
		{name: "AE native vm3", code: vr.AE, vm: 3, policy: Native, want: Column{"VARCHAR", 48}},
		{name: "SS string vm10", code: vr.SS, vm: 10, policy: StringOnly, want: Column{"VARCHAR", 60}},
		{name: "DA native", code: vr.DA, vm: 1, policy: Native, want: Column{"DATE", 0}},
		{name: "TM native", code: vr.TM, vm: 1, policy: Native, want: Column{"DATATIME", 0}},
		{name: "TM string", code: vr.TM, vm: 4, policy: StringOnly, want: Column{"DATATIME", 0}},
		{name: "LT native", code: vr.LT, vm: 1, policy: Native, want: Column{"LONGBLOB", 0}},
		{name: "LT string", code: vr.LT, vm: 1, policy: StringOnly, want: Column{"LONGTEXT", 0}},
		{name: "ST native", code: vr.ST, vm: 1, policy: Native, want: Column{"BLOB", 0}},
		{name: "ST string", code: vr.ST, vm: 1, policy: StringOnly, want: Column{"TEXT", 0}},
		{name: "UL native", code: vr.UL, vm: 2, policy: Native, want: Column{"INT", 0}},
		{name: "UL string", code: vr.UL, vm: 2, policy: StringOnly, want: Column{"VARCHAR", 128}},
		{name: "US native", code: vr.US, vm: 1, policy: Native, want: Column{"SMALLINT", 0}},
		{name: "SH native", code: vr.SH, vm: 1, policy: Native, want: Column{"VARCHAR", 32}},
		{name: "AT native", code: vr.AT, vm: 2, policy: Native, want: Column{"CHAR", 8}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Resolve(tt.code, tt.vm, tt.policy)
			if err != nil {
				t.Fatalf("Resolve(%s, %d, %s) error = %v", tt.code, tt.vm, tt.policy, err)
			}
			if got != tt.want {
				t.Fatalf("Resolve(%s, %d, %s) = %+v, want %+v", tt.code, tt.vm, tt.policy, got, tt.want)
			}
		})
	}
}

func TestResolveExcludedRepresentations(t *testing.T) {
	t.Parallel()

	for _, code := range []vr.Code{vr.OB, vr.OF, vr.OW, vr.SQ} {
		for _, p := range []Policy{Native, StringOnly} {
			for _, vm := range []int{1, 2, 7, vr.Unbounded} {
				_, err := Resolve(code, vm, p)
				if !errors.Is(err, ErrUnsupportedRepresentation) {
					t.Fatalf("Resolve(%s, %d, %s) error = %v, want ErrUnsupportedRepresentation", code, vm, p, err)
				}
				var ue *UnsupportedRepresentationError
				if !errors.As(err, &ue) || ue.VR != code {
					t.Fatalf("Resolve(%s, %d, %s) error = %#v, want *UnsupportedRepresentationError{VR: %s}", code, vm, p, err, code)
				}
			}
		}
	}
}

func TestResolveInvalidMultiplicity(t *testing.T) {
	t.Parallel()

	codes := append(vr.All(), vr.Code("ZZ"))
	for _, code := range codes {
		for _, p := range []Policy{Native, StringOnly} {
			for _, vm := range []int{0, -1, -100} {
				_, err := Resolve(code, vm, p)
				if !errors.Is(err, ErrInvalidMultiplicity) {
					t.Fatalf("Resolve(%s, %d, %s) error = %v, want ErrInvalidMultiplicity", code, vm, p, err)
				}
				if errors.Is(err, ErrUnsupportedRepresentation) {
					t.Fatalf("Resolve(%s, %d, %s) matched both error kinds", code, vm, p)
				}
			}
		}
	}
}

// TestResolveLengthScaling checks length == base unit * vm for every
// length-bearing entry.
func TestResolveLengthScaling(t *testing.T) {
	t.Parallel()

	for _, p := range []Policy{Native, StringOnly} {
		for _, code := range Mapped() {
			base, err := Resolve(code, 1, p)
			if err != nil {
				t.Fatalf("Resolve(%s, 1, %s) error = %v", code, p, err)
			}
			for _, vm := range []int{2, 3, 16, 1000} {
				got, err := Resolve(code, vm, p)
				if err != nil {
					t.Fatalf("Resolve(%s, %d, %s) error = %v", code, vm, p, err)
				}
				if got.Type != base.Type {
					t.Fatalf("Resolve(%s, %d, %s).Type = %q, want %q", code, vm, p, got.Type, base.Type)
				}
				if got.Length != base.Length*int64(vm) {
					t.Fatalf("Resolve(%s, %d, %s).Length = %d, want %d", code, vm, p, got.Length, base.Length*int64(vm))
				}
				if got.HasLength() && got.Length <= 0 {
					t.Fatalf("Resolve(%s, %d, %s).Length = %d, want positive", code, vm, p, got.Length)
				}
			}
		}
	}
}

func TestResolvePolicyIndependentCodes(t *testing.T) {
	t.Parallel()

	same := []vr.Code{vr.AE, vr.AS, vr.AT, vr.CS, vr.DA, vr.DT, vr.LO, vr.PN, vr.SH, vr.TM, vr.UI}
	for _, code := range same {
		for _, vm := range []int{1, 2, 9} {
			n, err := Resolve(code, vm, Native)
			if err != nil {
				t.Fatalf("Resolve(%s, %d, native) error = %v", code, vm, err)
			}
			s, err := Resolve(code, vm, StringOnly)
			if err != nil {
				t.Fatalf("Resolve(%s, %d, string) error = %v", code, vm, err)
			}
			if n != s {
				t.Fatalf("Resolve(%s, %d): native %+v != string %+v", code, vm, n, s)
			}
		}
	}
}

// TestResolveStringOnlyVocabulary asserts the StringOnly table never emits a
// numeric or binary type other than the TM and DA/DT passthroughs.
func TestResolveStringOnlyVocabulary(t *testing.T) {
	t.Parallel()

	allowed := map[string]bool{
		TypeVarchar: true, TypeChar: true, TypeText: true, TypeLongtext: true,
		TypeDate: true, TypeDatetime: true, TypeTime: true,
	}
	for _, code := range Mapped() {
		got, err := Resolve(code, 1, StringOnly)
		if err != nil {
			t.Fatalf("Resolve(%s, 1, string) error = %v", code, err)
		}
		if !allowed[got.Type] {
			t.Fatalf("Resolve(%s, 1, string).Type = %q, not a text-family type", code, got.Type)
		}
	}
}

func TestResolveUnboundedMultiplicity(t *testing.T) {
	t.Parallel()

	// Code-specific entries win over the unbounded fallback.
	got, err := Resolve(vr.CS, vr.Unbounded, Native)
	if err != nil {
		t.Fatalf("Resolve(CS, Unbounded) error = %v", err)
	}
	if got.Type != TypeVarchar || got.Length != 16*int64(vr.Unbounded) {
		t.Fatalf("Resolve(CS, Unbounded) = %+v, want VARCHAR with scaled length", got)
	}

	got, err = Resolve(vr.DA, vr.Unbounded, StringOnly)
	if err != nil || got != (Column{Type: TypeDate}) {
		t.Fatalf("Resolve(DA, Unbounded, string) = %+v, %v; want DATE", got, err)
	}

	// Codes without an entry fall back to BLOB only for unbounded VM.
	for _, code := range []vr.Code{vr.UC, vr.UR, vr.OD, vr.OL, vr.SV, vr.UV, vr.OV} {
		got, err := Resolve(code, vr.Unbounded, Native)
		if err != nil {
			t.Fatalf("Resolve(%s, Unbounded) error = %v", code, err)
		}
		if got != (Column{Type: TypeBlob}) {
			t.Fatalf("Resolve(%s, Unbounded) = %+v, want BLOB", code, got)
		}
		if _, err := Resolve(code, 1, Native); !errors.Is(err, ErrUnsupportedRepresentation) {
			t.Fatalf("Resolve(%s, 1) error = %v, want ErrUnsupportedRepresentation", code, err)
		}
	}

	// Codes outside the catalog never get the fallback.
	for _, code := range []vr.Code{"ZZ", "SEE NOTE", ""} {
		for _, vm := range []int{1, vr.Unbounded} {
			if _, err := Resolve(code, vm, Native); !errors.Is(err, ErrUnsupportedRepresentation) {
				t.Fatalf("Resolve(%q, %d) error = %v, want ErrUnsupportedRepresentation", code, vm, err)
			}
		}
	}
}

func TestResolveDeterministicConcurrent(t *testing.T) {
	t.Parallel()

	want := make(map[vr.Code]Column)
	for _, code := range Mapped() {
		c, err := Resolve(code, 5, StringOnly)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", code, err)
		}
		want[code] = c
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				for code, w := range want {
					got, err := Resolve(code, 5, StringOnly)
					if err != nil || got != w {
						select {
						case errs <- string(code):
						default:
						}
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for code := range errs {
		t.Fatalf("Resolve(%s) was not deterministic under concurrency", code)
	}
}

func TestMappedCoversTwentyThreeCodes(t *testing.T) {
	t.Parallel()

	got := Mapped()
	if len(got) != 23 {
		t.Fatalf("len(Mapped()) = %d, want 23", len(got))
	}
	for _, code := range got {
		if _, ok := excluded[code]; ok {
			t.Fatalf("Mapped() contains excluded code %s", code)
		}
	}
}

func BenchmarkResolveNative(b *testing.B) {
	codes := Mapped()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Resolve(codes[i%len(codes)], 1+i%8, Native)
	}
}

func BenchmarkResolveStringOnly(b *testing.B) {
	codes := Mapped()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Resolve(codes[i%len(codes)], 1+i%8, StringOnly)
	}
}
