package pdu

import (
	"github.com/gosnmp/gosnmp"

	"github.com/snmpfleet/snmpfleet/internal/domain"
	"github.com/snmpfleet/snmpfleet/internal/snmpdata"
)

// HandlerError describes a protocol error (status, 1-based index, OID).
// Handle never returns it: Get/GetNext failures are recovered locally
// into an SNMP error response whose Error and ErrorIndex fields carry the
// status and index.
type HandlerError struct {
	Status gosnmp.SNMPError
	Index  int
	OID    string
}

func (e *HandlerError) Error() string {
	return "protocol error"
}

// Handle is the PDU Handler's single entry point: stateless, takes an
// immutable OID map snapshot and a decoded request, and produces one
// response. GetRequest and GetNextRequest are implemented; anything else
// decodes successfully but yields a GenErr response with error_index=0.
func Handle(data *snmpdata.Map, req *gosnmp.SnmpPacket) *gosnmp.SnmpPacket {
	version := versionOf(req.Version)

	switch req.PDUType {
	case gosnmp.GetRequest:
		return handleGet(data, req, version)
	case gosnmp.GetNextRequest:
		return handleGetNext(data, req, version)
	default:
		return respond(req, nil, gosnmp.GenErr, 0)
	}
}

func versionOf(v gosnmp.SnmpVersion) domain.ProtocolVersion {
	switch v {
	case gosnmp.Version1:
		return domain.V1
	case gosnmp.Version3:
		return domain.V3
	default:
		return domain.V2c
	}
}

func handleGet(data *snmpdata.Map, req *gosnmp.SnmpPacket, version domain.ProtocolVersion) *gosnmp.SnmpPacket {
	vars := make([]gosnmp.SnmpPDU, 0, len(req.Variables))

	for i, v := range req.Variables {
		oid, err := snmpdata.ParseOID(v.Name)
		if err != nil {
			return noSuchName(req, v.Name, i+1)
		}

		item := data.Get(oid)
		if item == nil {
			return noSuchName(req, oid.String(), i+1)
		}

		ber, value, err := convert(item, version)
		if err != nil {
			return respond(req, nil, gosnmp.GenErr, 0)
		}
		vars = append(vars, gosnmp.SnmpPDU{Name: oid.String(), Type: ber, Value: value})
	}

	return respond(req, vars, gosnmp.NoError, 0)
}

func handleGetNext(data *snmpdata.Map, req *gosnmp.SnmpPacket, version domain.ProtocolVersion) *gosnmp.SnmpPacket {
	vars := make([]gosnmp.SnmpPDU, 0, len(req.Variables))

	for i, v := range req.Variables {
		oid, err := snmpdata.ParseOID(v.Name)
		if err != nil {
			return noSuchName(req, v.Name, i+1)
		}

		nextOID, item, found := data.GetNext(oid)
		if !found {
			return noSuchName(req, oid.String(), i+1)
		}

		ber, value, err := convert(item, version)
		if err != nil {
			return respond(req, nil, gosnmp.GenErr, 0)
		}
		vars = append(vars, gosnmp.SnmpPDU{Name: nextOID.String(), Type: ber, Value: value})
	}

	return respond(req, vars, gosnmp.NoError, 0)
}

// noSuchName builds the NoSuchName(2) error response: a single VarBind
// carrying the offending OID with an unspecified value, and error_index
// set to the 1-based position of that OID in the request.
func noSuchName(req *gosnmp.SnmpPacket, oid string, index int) *gosnmp.SnmpPacket {
	vars := []gosnmp.SnmpPDU{{Name: oid, Type: gosnmp.Null, Value: nil}}
	return respond(req, vars, gosnmp.NoSuchName, uint8(index))
}

// respond copies the request's envelope (request id, community, version,
// security parameters) into a response packet, overwriting only the
// fields the handler owns.
func respond(req *gosnmp.SnmpPacket, vars []gosnmp.SnmpPDU, status gosnmp.SNMPError, index uint8) *gosnmp.SnmpPacket {
	resp := *req
	resp.PDUType = gosnmp.GetResponse
	resp.Variables = vars
	resp.Error = status
	resp.ErrorIndex = index
	return &resp
}
