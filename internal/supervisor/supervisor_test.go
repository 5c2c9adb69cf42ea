package supervisor

import (
	"sync"
	"testing"
	"time"

	"github.com/snmpfleet/snmpfleet/internal/domain"
)

func testDevice(id string) domain.Device {
	return domain.Device{
		ID:       id,
		SnmpHost: "127.0.0.1",
		SnmpPort: 0,
		Protocol: domain.SnmpV1Attributes{Community: "public"},
	}
}

func TestStartStopLifecycle(t *testing.T) {
	s := New(Metrics{})
	device := testDevice("d1")

	if err := s.Start(device, "../dump/testdata/os-linux-std.txt"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.IsRunning("d1") {
		t.Fatalf("expected d1 to be running")
	}

	if err := s.Start(device, "../dump/testdata/os-linux-std.txt"); err == nil {
		t.Fatalf("expected DeviceAlreadyRunning on a second Start")
	} else if se := err.(*domain.SupervisorError); se.Kind != domain.DeviceAlreadyRunning {
		t.Fatalf("Kind = %v", se.Kind)
	}

	if err := s.Stop("d1"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.IsRunning("d1") {
		t.Fatalf("expected d1 to be stopped")
	}

	if err := s.Stop("d1"); err == nil {
		t.Fatalf("expected DeviceNotRunning on a second Stop")
	} else if se := err.(*domain.SupervisorError); se.Kind != domain.DeviceNotRunning {
		t.Fatalf("Kind = %v", se.Kind)
	}
}

func TestStartFailedOnMissingDump(t *testing.T) {
	s := New(Metrics{})
	device := testDevice("d2")

	if err := s.Start(device, "../dump/testdata/does-not-exist.txt"); err == nil {
		t.Fatalf("expected StartFailed for a missing dump file")
	} else if se := err.(*domain.SupervisorError); se.Kind != domain.StartFailed {
		t.Fatalf("Kind = %v", se.Kind)
	}
	if s.IsRunning("d2") {
		t.Fatalf("device must not be registered after a failed start")
	}
}

func TestOnRunningChangedTracksStartAndStop(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	s := New(Metrics{
		OnRunningChanged: func(n int) {
			mu.Lock()
			seen = append(seen, n)
			mu.Unlock()
		},
	})
	device := testDevice("d5")

	if err := s.Start(device, "../dump/testdata/os-linux-std.txt"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop("d5"); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 0 {
		t.Fatalf("seen = %v, want [1 0]", seen)
	}
}

func TestShutdownStopsEveryResponder(t *testing.T) {
	s := New(Metrics{})
	for _, id := range []string{"d3", "d4"} {
		if err := s.Start(testDevice(id), "../dump/testdata/os-linux-std.txt"); err != nil {
			t.Fatalf("Start(%s): %v", id, err)
		}
	}
	if s.RunningCount() != 2 {
		t.Fatalf("RunningCount = %d, want 2", s.RunningCount())
	}

	s.Shutdown()

	deadline := time.Now().Add(2 * time.Second)
	for s.RunningCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.RunningCount() != 0 {
		t.Fatalf("RunningCount after Shutdown = %d, want 0", s.RunningCount())
	}
}
