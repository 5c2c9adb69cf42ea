package pdu

import (
	"testing"

	"github.com/gosnmp/gosnmp"

	"github.com/snmpfleet/snmpfleet/internal/domain"
	"github.com/snmpfleet/snmpfleet/internal/snmpdata"
)

func buildTestMap(t *testing.T) *snmpdata.Map {
	t.Helper()
	m := snmpdata.NewMap()
	insert := func(oidStr string, item *snmpdata.Item) {
		oid, err := snmpdata.ParseOID(oidStr)
		if err != nil {
			t.Fatalf("ParseOID(%q): %v", oidStr, err)
		}
		m.Insert(oid, item)
	}
	insert(".1.3.6.1.2.1.1.1.0", &snmpdata.Item{DataType: snmpdata.String, DataValue: "Linux nmsworker-devel"})
	insert(".1.3.6.1.2.1.1.2.0", &snmpdata.Item{DataType: snmpdata.OidType, DataValue: ".1.3.6.1.4.1.8072.3.2.10"})
	insert(".1.3.6.1.2.1.2.2.1.10.1", &snmpdata.Item{DataType: snmpdata.Counter32, DataValue: "914518245"})
	insert(".1.3.6.1.2.1.4.24.6.0", &snmpdata.Item{DataType: snmpdata.Gauge32, DataValue: "7"})
	m.Freeze()
	return m
}

func baseRequest(pduType gosnmp.PDUType, vars ...string) *gosnmp.SnmpPacket {
	variables := make([]gosnmp.SnmpPDU, len(vars))
	for i, v := range vars {
		variables[i] = gosnmp.SnmpPDU{Name: v, Type: gosnmp.Null}
	}
	return &gosnmp.SnmpPacket{
		Version:   gosnmp.Version2c,
		Community: "public",
		PDUType:   pduType,
		RequestID: 1,
		Variables: variables,
	}
}

func TestHandleGetSuccess(t *testing.T) {
	data := buildTestMap(t)
	req := baseRequest(gosnmp.GetRequest, ".1.3.6.1.2.1.2.2.1.10.1")
	resp := Handle(data, req)

	if resp.Error != gosnmp.NoError {
		t.Fatalf("Error = %v", resp.Error)
	}
	if len(resp.Variables) != 1 {
		t.Fatalf("Variables = %v", resp.Variables)
	}
	v := resp.Variables[0]
	if v.Type != gosnmp.Counter32 || v.Value.(uint32) != 914518245 {
		t.Fatalf("got type=%v value=%v", v.Type, v.Value)
	}
}

func TestHandleGetNoSuchName(t *testing.T) {
	data := buildTestMap(t)
	req := baseRequest(gosnmp.GetRequest, ".1.3.6.1.2.1.1.1.0", ".1.3.6.1.2.1.99.0")
	resp := Handle(data, req)

	if resp.Error != gosnmp.NoSuchName {
		t.Fatalf("Error = %v", resp.Error)
	}
	if resp.ErrorIndex != 2 {
		t.Fatalf("ErrorIndex = %d, want 2 (1-based position of the missing OID)", resp.ErrorIndex)
	}
	if len(resp.Variables) != 1 || resp.Variables[0].Name != ".1.3.6.1.2.1.99.0" {
		t.Fatalf("Variables = %v", resp.Variables)
	}
}

func TestHandleGetNext(t *testing.T) {
	data := buildTestMap(t)
	req := baseRequest(gosnmp.GetNextRequest, ".1.3.6.1.2.1.1.1.0")
	resp := Handle(data, req)

	if resp.Error != gosnmp.NoError {
		t.Fatalf("Error = %v", resp.Error)
	}
	v := resp.Variables[0]
	if v.Name != ".1.3.6.1.2.1.1.2.0" || v.Type != gosnmp.ObjectIdentifier {
		t.Fatalf("got %+v", v)
	}
}

func TestHandleGetNextPastEndIsNoSuchName(t *testing.T) {
	data := buildTestMap(t)
	req := baseRequest(gosnmp.GetNextRequest, ".1.3.6.1.2.1.4.24.6.0")
	resp := Handle(data, req)

	if resp.Error != gosnmp.NoSuchName {
		t.Fatalf("Error = %v", resp.Error)
	}
	if resp.ErrorIndex != 1 {
		t.Fatalf("ErrorIndex = %d", resp.ErrorIndex)
	}
}

func TestHandleGetEmptyVarbindListIsNoError(t *testing.T) {
	data := buildTestMap(t)
	req := baseRequest(gosnmp.GetRequest)
	resp := Handle(data, req)

	if resp.Error != gosnmp.NoError {
		t.Fatalf("Error = %v", resp.Error)
	}
	if len(resp.Variables) != 0 {
		t.Fatalf("Variables = %v, want none", resp.Variables)
	}
	if resp.RequestID != req.RequestID {
		t.Fatalf("RequestID = %d, want %d", resp.RequestID, req.RequestID)
	}
}

func TestHandleUnsupportedPDUTypeIsGenErr(t *testing.T) {
	data := buildTestMap(t)
	req := baseRequest(gosnmp.SetRequest, ".1.3.6.1.2.1.1.1.0")
	resp := Handle(data, req)

	if resp.Error != gosnmp.GenErr {
		t.Fatalf("Error = %v", resp.Error)
	}
	if resp.ErrorIndex != 0 || len(resp.Variables) != 0 {
		t.Fatalf("got ErrorIndex=%d Variables=%v", resp.ErrorIndex, resp.Variables)
	}
}

func TestConvertCounter64V1Fallback(t *testing.T) {
	item := &snmpdata.Item{DataType: snmpdata.Counter64, DataValue: "18446744073709551615"}

	ber, value, err := convert(item, domain.V1)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if ber != gosnmp.OctetString {
		t.Fatalf("v1 Counter64 should fall back to OctetString, got %v", ber)
	}
	if string(value.([]byte)) != "18446744073709551615" {
		t.Fatalf("value = %v", value)
	}

	ber, value, err = convert(item, domain.V2c)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if ber != gosnmp.Counter64 || value.(uint64) != 18446744073709551615 {
		t.Fatalf("v2c Counter64 got type=%v value=%v", ber, value)
	}
}

func TestConvertIPAddress(t *testing.T) {
	item := &snmpdata.Item{DataType: snmpdata.IPAddress, DataValue: "169.254.0.0"}
	ber, value, err := convert(item, domain.V2c)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if ber != gosnmp.IPAddress || value.(string) != "169.254.0.0" {
		t.Fatalf("got type=%v value=%v", ber, value)
	}
}

func TestConvertInvalidIPAddressFails(t *testing.T) {
	item := &snmpdata.Item{DataType: snmpdata.IPAddress, DataValue: "not-an-ip"}
	if _, _, err := convert(item, domain.V2c); err == nil {
		t.Fatalf("expected a conversion error")
	}
}
