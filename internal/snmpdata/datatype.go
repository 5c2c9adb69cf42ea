package snmpdata

// DataType is the textual type tag recognized in a dump value, carried
// through to the PDU handler's wire-value conversion table.
type DataType int

const (
	String DataType = iota
	OidType
	Integer
	Timeticks
	Counter32
	Counter64
	Gauge32
	IPAddress
	HexString
	NetworkAddress
	Bits
	Null
	Opaque
	UInteger32
	OctetString
)

// dataTypeTags maps the case-sensitive tag recognized after the `TYPE:`
// prefix in a dump value to its DataType, including the synonyms spec.md
// names explicitly.
var dataTypeTags = map[string]DataType{
	"String":          String,
	"STRING":          String,
	"Oid":             OidType,
	"OID":             OidType,
	"Integer":         Integer,
	"INTEGER":         Integer,
	"Integer32":       Integer,
	"Timeticks":       Timeticks,
	"Counter32":       Counter32,
	"Counter64":       Counter64,
	"Gauge32":         Gauge32,
	"IpAddress":       IPAddress,
	"Hex-STRING":      HexString,
	"Network Address": NetworkAddress,
	"Bits":            Bits,
	"BITS":            Bits,
	"Null":            Null,
	"Opaque":          Opaque,
	"UInteger32":      UInteger32,
	"OctetString":     OctetString,
}

// ParseDataType maps a type tag to a DataType. ok is false for an
// unrecognized tag.
func ParseDataType(tag string) (DataType, bool) {
	dt, ok := dataTypeTags[tag]
	return dt, ok
}

func (dt DataType) String() string {
	switch dt {
	case String:
		return "String"
	case OidType:
		return "Oid"
	case Integer:
		return "Integer"
	case Timeticks:
		return "Timeticks"
	case Counter32:
		return "Counter32"
	case Counter64:
		return "Counter64"
	case Gauge32:
		return "Gauge32"
	case IPAddress:
		return "IpAddress"
	case HexString:
		return "HexString"
	case NetworkAddress:
		return "NetworkAddress"
	case Bits:
		return "Bits"
	case Null:
		return "Null"
	case Opaque:
		return "Opaque"
	case UInteger32:
		return "UInteger32"
	case OctetString:
		return "OctetString"
	default:
		return "Unknown"
	}
}

// Item is one leaf value in a parsed dump. Modifiers are retained verbatim
// but never interpreted.
type Item struct {
	DataType    DataType
	DataValue   string
	PreLoadMods []string
	PostLoadMod string
	HasPostMod  bool
}
