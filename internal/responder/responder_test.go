package responder

import (
	"net"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/snmpfleet/snmpfleet/internal/codec"
	"github.com/snmpfleet/snmpfleet/internal/domain"
	"github.com/snmpfleet/snmpfleet/internal/snmpdata"
)

func buildData(t *testing.T) *snmpdata.Map {
	t.Helper()
	m := snmpdata.NewMap()
	oid, err := snmpdata.ParseOID(".1.3.6.1.2.1.1.1.0")
	if err != nil {
		t.Fatalf("ParseOID: %v", err)
	}
	m.Insert(oid, &snmpdata.Item{DataType: snmpdata.String, DataValue: "Linux nmsworker-devel"})
	m.Freeze()
	return m
}

func TestResponderAnswersGetRequest(t *testing.T) {
	device := domain.Device{ID: "d1", SnmpHost: "127.0.0.1", SnmpPort: 0}
	r, err := New(device, "public", buildData(t), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Stop()

	client, err := net.DialUDP("udp", nil, r.Addr().(*net.UDPAddr))
	if err != nil {
		t.Fatalf("DialUDP: %v", err)
	}
	defer client.Close()

	req := &gosnmp.SnmpPacket{
		Version:   gosnmp.Version2c,
		Community: "public",
		PDUType:   gosnmp.GetRequest,
		RequestID: 1,
		Variables: []gosnmp.SnmpPDU{{Name: ".1.3.6.1.2.1.1.1.0", Type: gosnmp.Null}},
	}
	payload, err := codec.Encode(req)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := client.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	resp, err := codec.Decode(buf[:n], "public")
	if err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	if resp.Error != gosnmp.NoError {
		t.Fatalf("Error = %v", resp.Error)
	}
	if string(resp.Variables[0].Value.([]byte)) != "Linux nmsworker-devel" {
		t.Fatalf("Value = %v", resp.Variables[0].Value)
	}
}

func TestResponderStopIsIdempotentAndClosesDone(t *testing.T) {
	device := domain.Device{ID: "d2", SnmpHost: "127.0.0.1", SnmpPort: 0}
	r, err := New(device, "public", buildData(t), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r.Stop()
	r.Stop()

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("expected Done() to close after Stop()")
	}
}
