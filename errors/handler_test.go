package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func TestHandlerAdd(t *testing.T) {
	h := NewHandler(3)
	if h.HasErrors() {
		t.Fatalf("new handler HasErrors() = true")
	}
	h.AddKind(SettingUnset, 1)
	h.AddPosition(ParseMissingClosingTag, 4, 2)
	td.Cmp(t, h.Count(), 2)
	td.Cmp(t, h.Capacity(), 3)
	td.Cmp(t, h.Full(), false)
	td.Cmp(t, h.Codes(), []Code{
		NewCode(SettingUnset, 1),
		PositionCode(ParseMissingClosingTag, 4, 2),
	})
}

func TestHandlerSaturation(t *testing.T) {
	h := NewHandler(2)
	for i := range 5 {
		h.AddKind(InvalidOption, uint32(i))
	}
	if h.Count() != h.Capacity() {
		t.Fatalf("Count() = %d, want %d", h.Count(), h.Capacity())
	}
	if !h.Full() {
		t.Fatalf("Full() = false after saturation")
	}
	codes := h.Codes()
	td.Cmp(t, codes[0].Payload(), uint32(0), "first slot keeps the first code")
	td.Cmp(t, codes[1].Payload(), uint32(4), "last slot holds the most recent code")
}

func TestHandlerZeroCapacity(t *testing.T) {
	h := NewHandler(0)
	h.AddKind(MissingValue, 0)
	td.Cmp(t, h.Count(), 0)
	td.Cmp(t, h.HasErrors(), false)
}

func TestHandlerClear(t *testing.T) {
	h := NewHandler(2)
	h.AddKind(MissingValue, 0)
	h.Clear()
	td.Cmp(t, h.Count(), 0)
	td.CmpNil(t, h.List())
	h.AddKind(NegativeValue, 9)
	td.Cmp(t, h.Codes(), []Code{NewCode(NegativeValue, 9)})
}

func TestHandlerFormat(t *testing.T) {
	h := NewHandler(4)
	var b strings.Builder
	if err := h.Format(&b, "errors:"); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("Format() on empty handler wrote %q", b.String())
	}

	h.AddKind(NoTriggerEnabled, 1)
	if err := h.Format(&b, "errors:"); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "errors:\n  0X61000001 verification: no trigger enabled (payload 0x0001)\n"
	if b.String() != want {
		t.Fatalf("Format() = %q, want %q", b.String(), want)
	}
}

func TestCodeListError(t *testing.T) {
	tests := []struct {
		name string
		list CodeList
		want string
	}{
		{name: "empty", list: nil, want: "no errors"},
		{name: "one", list: CodeList{NewCode(ParseEmptyConfig, 0x001001)}, want: "0X24001001 parsing: config is empty (payload 0x1001)"},
		{
			name: "many",
			list: CodeList{NewCode(ParseEmptyConfig, 0x001001), NewCode(SettingUnset, 3)},
			want: "0X24001001 parsing: config is empty (payload 0x1001) (and 1 more)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.list.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAsCodes(t *testing.T) {
	list := CodeList{NewCode(SettingUnset, 1)}
	wrapped := fmt.Errorf("process: %w", list)

	got, ok := AsCodes(wrapped)
	if !ok {
		t.Fatalf("AsCodes() ok = false")
	}
	td.Cmp(t, got, []Code(list))

	if _, ok := AsCodes(errors.New("plain")); ok {
		t.Fatalf("AsCodes(plain) ok = true")
	}
	if _, ok := AsCodes(nil); ok {
		t.Fatalf("AsCodes(nil) ok = true")
	}
	if !list.Has(SettingUnset) || list.Has(MissingValue) {
		t.Fatalf("Has() mismatch")
	}
}
