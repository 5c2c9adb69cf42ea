package snmpdata

import "testing"

func TestParseOID(t *testing.T) {
	oid, err := ParseOID(".1.3.6.1.2.1.1.1.0")
	if err != nil {
		t.Fatalf("ParseOID: %v", err)
	}
	want := OID{1, 3, 6, 1, 2, 1, 1, 1, 0}
	if !oid.Equal(want) {
		t.Fatalf("got %v, want %v", oid, want)
	}
	if oid.String() != ".1.3.6.1.2.1.1.1.0" {
		t.Fatalf("String() = %q", oid.String())
	}
}

func TestParseOIDInvalid(t *testing.T) {
	if _, err := ParseOID(".1.x.3"); err == nil {
		t.Fatalf("expected error for non-numeric component")
	}
	if _, err := ParseOID(""); err == nil {
		t.Fatalf("expected error for empty OID")
	}
}

func TestOIDLess(t *testing.T) {
	a, _ := ParseOID(".1.3.6.1.2.1.1.1.0")
	b, _ := ParseOID(".1.3.6.1.2.1.1.2.0")
	if !a.Less(b) {
		t.Fatalf("expected %v < %v", a, b)
	}
	if b.Less(a) {
		t.Fatalf("did not expect %v < %v", b, a)
	}

	prefix, _ := ParseOID(".1.3.6.1")
	longer, _ := ParseOID(".1.3.6.1.0")
	if !prefix.Less(longer) {
		t.Fatalf("shorter OID sharing a prefix must sort first")
	}
}
