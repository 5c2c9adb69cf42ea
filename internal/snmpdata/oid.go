// Package snmpdata holds the parsed read model of an agent's SNMP dump: an
// ordered OID to SnmpDataItem map built once at load time and shared
// read-only across every request a Responder handles.
package snmpdata

import (
	"fmt"
	"strconv"
	"strings"
)

// OID is a parsed Object Identifier, its natural order the lexicographic
// order of its numeric components.
type OID []uint64

// ParseOID parses dot-separated unsigned integers, trimming any leading
// and trailing dots. Any non-numeric component is an error.
func ParseOID(s string) (OID, error) {
	s = strings.Trim(s, ".")
	if s == "" {
		return nil, fmt.Errorf("empty OID")
	}
	parts := strings.Split(s, ".")
	out := make(OID, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OID component %q in %q: %w", p, s, err)
		}
		out[i] = n
	}
	return out, nil
}

// String renders the OID in dotted notation with a leading dot, matching
// the dump format and the wire convention the codec expects.
func (o OID) String() string {
	var b strings.Builder
	for _, n := range o {
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(n, 10))
	}
	return b.String()
}

// Key renders the OID without a leading dot, used as the canonical map/tree
// key. Its string order is not numeric OID order ("1.10" sorts before
// "1.9"); Map orders keys with Less instead.
func (o OID) Key() string {
	parts := make([]string, len(o))
	for i, n := range o {
		parts[i] = strconv.FormatUint(n, 10)
	}
	return strings.Join(parts, ".")
}

// Less reports whether o sorts strictly before other under the numeric
// component order: compare shared components pairwise, and if all are
// equal the shorter OID is less.
func (o OID) Less(other OID) bool {
	n := len(o)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if o[i] != other[i] {
			return o[i] < other[i]
		}
	}
	return len(o) < len(other)
}

// Equal reports whether o and other have identical components.
func (o OID) Equal(other OID) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}
