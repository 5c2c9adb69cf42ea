package codec

import (
	"testing"

	"github.com/gosnmp/gosnmp"
)

func buildRequestBytes(t *testing.T, version gosnmp.SnmpVersion) []byte {
	t.Helper()
	packet := &gosnmp.SnmpPacket{
		Version:   version,
		Community: "public",
		PDUType:   gosnmp.GetRequest,
		RequestID: 7,
		Variables: []gosnmp.SnmpPDU{
			{Name: ".1.3.6.1.2.1.1.1.0", Type: gosnmp.Null},
		},
	}
	data, err := packet.MarshalMsg()
	if err != nil {
		t.Fatalf("MarshalMsg: %v", err)
	}
	return data
}

func TestDecodeRoundTripV1(t *testing.T) {
	data := buildRequestBytes(t, gosnmp.Version1)

	packet, err := Decode(data, "public")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if packet.Version != gosnmp.Version1 {
		t.Fatalf("Version = %v", packet.Version)
	}
	if packet.PDUType != gosnmp.GetRequest {
		t.Fatalf("PDUType = %v", packet.PDUType)
	}
	if len(packet.Variables) != 1 || packet.Variables[0].Name != ".1.3.6.1.2.1.1.1.0" {
		t.Fatalf("Variables = %v", packet.Variables)
	}
}

func TestDecodeRoundTripV2c(t *testing.T) {
	data := buildRequestBytes(t, gosnmp.Version2c)

	packet, err := Decode(data, "public")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if packet.Version != gosnmp.Version2c {
		t.Fatalf("Version = %v", packet.Version)
	}
}

func TestPeekVersion(t *testing.T) {
	data := buildRequestBytes(t, gosnmp.Version2c)
	v, err := peekVersion(data)
	if err != nil {
		t.Fatalf("peekVersion: %v", err)
	}
	if v != 1 {
		t.Fatalf("peekVersion = %d, want 1 (v2c)", v)
	}
}

func TestDecodeInvalidVersionIsRejected(t *testing.T) {
	data := buildRequestBytes(t, gosnmp.Version2c)
	// Flip the version content byte (first INTEGER value after the two
	// TLV headers) to an SNMP version this core does not accept.
	tag, _, headerLen, err := readTLVHeader(data, 0)
	if err != nil || tag != 0x30 {
		t.Fatalf("unexpected outer header: tag=%x err=%v", tag, err)
	}
	_, _, innerHeaderLen, err := readTLVHeader(data, headerLen)
	if err != nil {
		t.Fatalf("unexpected inner header: %v", err)
	}
	versionByteOffset := headerLen + innerHeaderLen
	data[versionByteOffset] = 9

	_, err = Decode(data, "public")
	ce, ok := err.(*Error)
	if !ok || ce.Kind != ErrInvalidVersion {
		t.Fatalf("got err=%v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	packet := &gosnmp.SnmpPacket{
		Version:   gosnmp.Version2c,
		Community: "public",
		PDUType:   gosnmp.GetResponse,
		RequestID: 7,
		Variables: []gosnmp.SnmpPDU{
			{Name: ".1.3.6.1.2.1.1.1.0", Type: gosnmp.OctetString, Value: []byte("hello")},
		},
	}
	data, err := Encode(packet)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(data, "public")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.PDUType != gosnmp.GetResponse {
		t.Fatalf("PDUType = %v", decoded.PDUType)
	}
	if string(decoded.Variables[0].Value.([]byte)) != "hello" {
		t.Fatalf("Value = %v", decoded.Variables[0].Value)
	}
}
