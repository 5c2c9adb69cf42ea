// Package pdu implements Get and GetNext semantics against a frozen OID
// map: looking up or advancing through OIDs, converting dump values to
// gosnmp wire values, and building the response PDU with the exact error
// codes and indices this core specifies.
package pdu

import (
	"fmt"
	"net"
	"strconv"

	"github.com/gosnmp/gosnmp"

	"github.com/snmpfleet/snmpfleet/internal/domain"
	"github.com/snmpfleet/snmpfleet/internal/snmpdata"
)

// convert renders one Item as a gosnmp wire value for the given protocol
// version, following the conversion table: String, Oid, Integer,
// Counter32, Gauge32, IpAddress, and Null convert the same way in every
// version; Counter64 and UInteger32 differ between v1 and v2/v3; anything
// else falls back to OctetString. A conversion failure is reported so the
// caller can collapse the whole response to GenErr.
func convert(item *snmpdata.Item, version domain.ProtocolVersion) (gosnmp.Asn1BER, interface{}, error) {
	isV1 := version == domain.V1

	switch item.DataType {
	case snmpdata.String:
		return gosnmp.OctetString, []byte(item.DataValue), nil

	case snmpdata.OidType:
		oid, err := snmpdata.ParseOID(item.DataValue)
		if err != nil {
			return 0, nil, fmt.Errorf("oid value %q: %w", item.DataValue, err)
		}
		return gosnmp.ObjectIdentifier, oid.String(), nil

	case snmpdata.Integer:
		n, err := strconv.ParseInt(item.DataValue, 10, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("integer value %q: %w", item.DataValue, err)
		}
		return gosnmp.Integer, int(n), nil

	case snmpdata.Counter32:
		n, err := strconv.ParseUint(item.DataValue, 10, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("counter32 value %q: %w", item.DataValue, err)
		}
		return gosnmp.Counter32, uint32(n), nil

	case snmpdata.Counter64:
		n, err := strconv.ParseUint(item.DataValue, 10, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("counter64 value %q: %w", item.DataValue, err)
		}
		if isV1 {
			return gosnmp.OctetString, []byte(item.DataValue), nil
		}
		return gosnmp.Counter64, n, nil

	case snmpdata.Gauge32:
		n, err := strconv.ParseUint(item.DataValue, 10, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("gauge32 value %q: %w", item.DataValue, err)
		}
		return gosnmp.Gauge32, uint32(n), nil

	case snmpdata.UInteger32:
		n, err := strconv.ParseUint(item.DataValue, 10, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("uinteger32 value %q: %w", item.DataValue, err)
		}
		if isV1 {
			return gosnmp.Integer, int(n), nil
		}
		return gosnmp.Uinteger32, uint32(n), nil

	case snmpdata.IPAddress:
		ip := net.ParseIP(item.DataValue)
		if ip == nil || ip.To4() == nil {
			return 0, nil, fmt.Errorf("ipaddress value %q is not a dotted IPv4 address", item.DataValue)
		}
		return gosnmp.IPAddress, ip.To4().String(), nil

	case snmpdata.Null:
		return gosnmp.Null, nil, nil

	default:
		return gosnmp.OctetString, []byte(item.DataValue), nil
	}
}
