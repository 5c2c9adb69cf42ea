package dump

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/snmpfleet/snmpfleet/internal/snmpdata"
)

// ParseError is a loader-fatal error: the whole dump load is aborted.
type ParseError struct {
	Kind   string // "UnrecognizedDataType" or "InvalidOID"
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// LoadFile reads a dump file at path into a frozen, ready-to-share Map.
func LoadFile(path string) (*snmpdata.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load parses a dump stream into a frozen, ready-to-share Map.
//
// Per-line folding and property-parsing errors are skipped silently (they
// are not returned to the caller) and do not abort the load. A data type the loader
// cannot recognize, or an OID with a non-numeric component, aborts the
// whole load with a ParseError.
func Load(r io.Reader) (*snmpdata.Map, error) {
	m := snmpdata.NewMap()
	folder := NewLineFolder(r)

	for {
		line, ok := folder.Next()
		if !ok {
			break
		}

		prop, err := ParseProperty(line)
		if err != nil {
			continue
		}

		item, oid, err := parseItem(prop)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				return nil, pe
			}
			continue
		}

		m.Insert(oid, item)
	}

	m.Freeze()
	return m, nil
}

// parseItem applies the type-tag split, DataType recognition, OID parse
// and modifier extraction steps of the SNMP Data Loader to one property.
func parseItem(prop Property) (*snmpdata.Item, snmpdata.OID, error) {
	dataType := snmpdata.String
	rawValue := prop.Value

	if idx := strings.IndexByte(prop.Value, ':'); idx > 0 {
		tag := strings.TrimSpace(prop.Value[:idx])
		rest := strings.TrimPrefix(prop.Value[idx:], ":")
		rest = strings.TrimSpace(rest)

		dt, ok := snmpdata.ParseDataType(tag)
		if !ok {
			return nil, nil, &ParseError{
				Kind:   "UnrecognizedDataType",
				Detail: fmt.Sprintf("line %d: unrecognized type tag %q", prop.Line, tag),
			}
		}
		dataType = dt
		rawValue = rest
	}

	oid, err := snmpdata.ParseOID(prop.Name)
	if err != nil {
		return nil, nil, &ParseError{
			Kind:   "InvalidOID",
			Detail: fmt.Sprintf("line %d: %v", prop.Line, err),
		}
	}

	value, preMods, postMod, hasPostMod := ExtractModifiers(rawValue)

	return &snmpdata.Item{
		DataType:    dataType,
		DataValue:   value,
		PreLoadMods: preMods,
		PostLoadMod: postMod,
		HasPostMod:  hasPostMod,
	}, oid, nil
}
