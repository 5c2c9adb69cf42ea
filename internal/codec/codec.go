// Package codec implements the two-phase BER decode this core specifies:
// peek the outer SEQUENCE header and the version INTEGER only, then
// delegate full decode/encode of the matched version to gosnmp. One UDP
// datagram is one message.
package codec

import (
	"fmt"

	"github.com/gosnmp/gosnmp"
)

// Error kinds. Every CodecError is non-fatal to the responder: the
// datagram is dropped and the loop continues.
type ErrorKind int

const (
	ErrDecoder ErrorKind = iota
	ErrEncoder
	ErrInvalidVersion
	ErrIO
)

type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("codec: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func decodeErr(err error) *Error { return &Error{Kind: ErrDecoder, Err: err} }
func encodeErr(err error) *Error { return &Error{Kind: ErrEncoder, Err: err} }
func ioErr(err error) *Error     { return &Error{Kind: ErrIO, Err: err} }
func invalidVersion(v int64) *Error {
	return &Error{Kind: ErrInvalidVersion, Err: fmt.Errorf("invalid snmp version %d", v)}
}

// peekVersion reads only the outer SEQUENCE header and the version
// INTEGER field, without decoding the rest of the message, per the
// explicit two-phase decode this codec implements.
func peekVersion(data []byte) (int64, error) {
	off := 0

	tag, length, headerLen, err := readTLVHeader(data, off)
	if err != nil {
		return 0, ioErr(err)
	}
	if tag != 0x30 {
		return 0, decodeErr(fmt.Errorf("expected SEQUENCE tag 0x30, got 0x%02x", tag))
	}
	_ = length
	off += headerLen

	vtag, vlen, vheaderLen, err := readTLVHeader(data, off)
	if err != nil {
		return 0, ioErr(err)
	}
	if vtag != 0x02 {
		return 0, decodeErr(fmt.Errorf("expected INTEGER tag 0x02 for version, got 0x%02x", vtag))
	}
	off += vheaderLen

	if off+vlen > len(data) {
		return 0, ioErr(fmt.Errorf("truncated version field"))
	}

	return decodeSignedInt(data[off : off+vlen]), nil
}

// readTLVHeader reads a BER tag and length starting at off, supporting
// single-byte tags and both short-form and multi-byte long-form lengths.
// Returns the tag byte, the content length, and the header's byte width.
func readTLVHeader(data []byte, off int) (tag byte, length int, headerLen int, err error) {
	if off >= len(data) {
		return 0, 0, 0, fmt.Errorf("unexpected end of data reading tag")
	}
	tag = data[off]
	pos := off + 1
	if pos >= len(data) {
		return 0, 0, 0, fmt.Errorf("unexpected end of data reading length")
	}

	first := data[pos]
	pos++
	if first&0x80 == 0 {
		return tag, int(first), pos - off, nil
	}

	numBytes := int(first & 0x7f)
	if numBytes == 0 || pos+numBytes > len(data) {
		return 0, 0, 0, fmt.Errorf("invalid or truncated long-form length")
	}
	length = 0
	for i := 0; i < numBytes; i++ {
		length = length<<8 | int(data[pos+i])
	}
	pos += numBytes
	return tag, length, pos - off, nil
}

// decodeSignedInt decodes a big-endian two's-complement BER INTEGER
// content into an int64; SNMP version values are always small and
// non-negative in practice.
func decodeSignedInt(b []byte) int64 {
	if len(b) == 0 {
		return 0
	}
	var v int64
	neg := b[0]&0x80 != 0
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	if neg {
		v -= 1 << (8 * uint(len(b)))
	}
	return v
}

// Decode peeks the version field, validates it against the versions this
// core accepts (0=v1, 1=v2c, 3=v3), and delegates the full decode to
// gosnmp with the matching Version/community/security configuration.
// Any other version value is InvalidVersion and the datagram must be
// dropped per spec.
func Decode(data []byte, community string) (*gosnmp.SnmpPacket, error) {
	v, err := peekVersion(data)
	if err != nil {
		return nil, err
	}

	var version gosnmp.SnmpVersion
	switch v {
	case 0:
		version = gosnmp.Version1
	case 1:
		version = gosnmp.Version2c
	case 3:
		version = gosnmp.Version3
	default:
		return nil, invalidVersion(v)
	}

	g := &gosnmp.GoSNMP{
		Version:   version,
		Community: community,
	}
	if version == gosnmp.Version3 {
		g.SecurityModel = gosnmp.UserSecurityModel
		g.MsgFlags = gosnmp.NoAuthNoPriv
		g.SecurityParameters = &gosnmp.UsmSecurityParameters{}
	}

	packet, err := g.SnmpDecodePacket(data)
	if err != nil {
		return nil, decodeErr(err)
	}
	return packet, nil
}

// Encode BER-encodes a response packet. The byte output for a given
// packet value is deterministic, matching gosnmp's own encoder.
func Encode(packet *gosnmp.SnmpPacket) ([]byte, error) {
	out, err := packet.MarshalMsg()
	if err != nil {
		return nil, encodeErr(err)
	}
	return out, nil
}
