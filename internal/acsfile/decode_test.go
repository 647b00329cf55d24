package acsfile

import (
	"testing"
	"unicode/utf16"

	"msagent/internal/cursor"
)

func encodeString(s string) []byte {
	units := utf16.Encode([]rune(s))
	buf := make([]byte, 0, 4+len(units)*2+2)

	length := uint32(len(units))
	buf = append(buf, byte(length), byte(length>>8), byte(length>>16), byte(length>>24))
	for _, u := range units {
		buf = append(buf, byte(u), byte(u>>8))
	}
	if length > 0 {
		buf = append(buf, 0, 0) // null terminator
	}
	return buf
}

func TestReadStringRoundTrip(t *testing.T) {
	cases := []string{"", "Genie", "café", "𝄞"} // last is a surrogate pair (U+1D11E)
	for _, want := range cases {
		buf := encodeString(want)
		got, err := readString(cursor.New(buf))
		if err != nil {
			t.Fatalf("readString(%q): %v", want, err)
		}
		if got != want {
			t.Fatalf("readString = %q, want %q", got, want)
		}
	}
}

func TestReadStringMissingTerminator(t *testing.T) {
	// length=1, one code unit, but the terminator slot is non-zero.
	buf := []byte{1, 0, 0, 0, 'A', 0, 0xFF, 0xFF}
	if _, err := readString(cursor.New(buf)); err == nil {
		t.Fatal("expected error for missing null terminator")
	}
}

func TestReadLocator(t *testing.T) {
	buf := []byte{0x10, 0, 0, 0, 0x20, 0, 0, 0}
	loc, err := readLocator(cursor.New(buf))
	if err != nil {
		t.Fatalf("readLocator: %v", err)
	}
	if loc.Offset != 0x10 || loc.Size != 0x20 {
		t.Fatalf("readLocator = %+v, want {16 32}", loc)
	}
	if loc.IsNil() {
		t.Fatal("non-zero locator reported as nil")
	}
}

func TestLocatorIsNilAndValidate(t *testing.T) {
	var zero Locator
	if !zero.IsNil() {
		t.Fatal("zero locator should be nil")
	}
	if err := zero.Validate(0); err != nil {
		t.Fatalf("nil locator should always validate: %v", err)
	}

	loc := Locator{Offset: 10, Size: 20}
	if err := loc.Validate(30); err != nil {
		t.Fatalf("in-range locator should validate: %v", err)
	}
	if err := loc.Validate(29); err == nil {
		t.Fatal("expected error for locator exceeding file length")
	}
}

func TestGUIDString(t *testing.T) {
	var g GUID
	// Sixteen distinct bytes, so each byte's place in the text form shows.
	copy(g[:], []byte{
		0x04, 0x03, 0x02, 0x01,
		0x06, 0x05,
		0x08, 0x07,
		0x09, 0x0A,
		0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10,
	})
	want := "{01020304-0506-0708-090A-0B0C0D0E0F10}"
	if got := g.String(); got != want {
		t.Fatalf("GUID.String() = %q, want %q", got, want)
	}
}

func TestReadPalette(t *testing.T) {
	buf := []byte{
		0x01, 0x02, 0x03, 0x00, // entry 0: B G R reserved
		0x04, 0x05, 0x06, 0x00, // entry 1
	}
	palette, err := readPalette(cursor.New(buf), 2)
	if err != nil {
		t.Fatalf("readPalette: %v", err)
	}
	if len(palette) != 2 {
		t.Fatalf("len(palette) = %d, want 2", len(palette))
	}
	if palette[0].Blue != 1 || palette[0].Green != 2 || palette[0].Red != 3 {
		t.Fatalf("palette[0] = %+v", palette[0])
	}
}
