package domain

// SnmpProtocolAttributes is the tagged union of per-version SNMP
// credentials a Device carries. Exactly one variant exists per Device;
// callers must switch on the concrete type (a type switch is the
// exhaustive-match idiom here) rather than treating it as optional fields.
// Only the input and wire shapes flatten it to three optional fields:
// CreateDeviceInput/UpdateDeviceInput here, the JSON payloads in
// internal/httpapi, and the fleet YAML in internal/config.
type SnmpProtocolAttributes interface {
	isSnmpProtocolAttributes()
	Version() ProtocolVersion
}

// ProtocolVersion identifies which SNMP version a message or credential
// set belongs to.
type ProtocolVersion int

const (
	V1 ProtocolVersion = iota
	V2c
	V3
)

func (v ProtocolVersion) String() string {
	switch v {
	case V1:
		return "v1"
	case V2c:
		return "v2c"
	case V3:
		return "v3"
	default:
		return "unknown"
	}
}

// SnmpV1Attributes is community-based SNMPv1 credentials.
type SnmpV1Attributes struct {
	Community string
}

func (SnmpV1Attributes) isSnmpProtocolAttributes() {}
func (SnmpV1Attributes) Version() ProtocolVersion  { return V1 }

// SnmpV2cAttributes is community-based SNMPv2c credentials.
type SnmpV2cAttributes struct {
	Community string
}

func (SnmpV2cAttributes) isSnmpProtocolAttributes() {}
func (SnmpV2cAttributes) Version() ProtocolVersion  { return V2c }

// AuthAlgorithm is the SNMPv3 USM authentication algorithm named by a
// credential set. No cryptography is performed over it in this core; the
// field is carried for completeness and envelope pass-through only.
type AuthAlgorithm int

const (
	AuthMD5 AuthAlgorithm = iota
	AuthSHA
)

// EncAlgorithm is the SNMPv3 USM privacy algorithm named by a credential
// set, likewise uninterpreted here.
type EncAlgorithm int

const (
	EncDES EncAlgorithm = iota
	EncAES
)

// SnmpV3Attributes is SNMPv3 USM credentials. Only the envelope fields
// (user, security level intent) are meaningful to this core; auth/priv
// are not cryptographically verified (SNMPv3 crypto is out of scope).
type SnmpV3Attributes struct {
	User          string
	AuthAlgorithm AuthAlgorithm
	AuthPassword  string
	EncAlgorithm  EncAlgorithm
	EncKey        string
}

func (SnmpV3Attributes) isSnmpProtocolAttributes() {}
func (SnmpV3Attributes) Version() ProtocolVersion  { return V3 }
