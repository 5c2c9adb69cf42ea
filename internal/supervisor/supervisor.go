// Package supervisor implements the device lifecycle supervisor: a
// registry that starts, tracks, and stops responders keyed by device id,
// guaranteeing exactly one responder per device and clean teardown.
package supervisor

import (
	"fmt"
	"sync"

	"github.com/snmpfleet/snmpfleet/internal/domain"
	"github.com/snmpfleet/snmpfleet/internal/dump"
	"github.com/snmpfleet/snmpfleet/internal/responder"
)

// Metrics is the narrow hook set the supervisor reports through; nil
// fields are simply not called.
type Metrics struct {
	OnPacket          func(deviceID, pduType string)
	OnDecodeError     func(deviceID, reason string)
	OnSupervisorEvent func(outcome string)
	OnRunningChanged  func(n int)
}

// Supervisor is a process-wide registry: device_id -> responder. All
// registry operations are serialized under a single mutex.
type Supervisor struct {
	mu         sync.Mutex
	responders map[string]*responder.Responder
	metrics    Metrics
}

func New(metrics Metrics) *Supervisor {
	return &Supervisor{
		responders: make(map[string]*responder.Responder),
		metrics:    metrics,
	}
}

// Start implements domain.Runtime. If id is already present it returns
// DeviceAlreadyRunning; otherwise it loads the agent's dump, constructs a
// Responder, and on success registers it.
func (s *Supervisor) Start(device domain.Device, snmpDataURL string) error {
	s.mu.Lock()
	if _, exists := s.responders[device.ID]; exists {
		s.mu.Unlock()
		s.event("already_running")
		return &domain.SupervisorError{Kind: domain.DeviceAlreadyRunning}
	}
	s.mu.Unlock()

	data, err := dump.LoadFile(snmpDataURL)
	if err != nil {
		s.event("start_failed")
		return &domain.SupervisorError{Kind: domain.StartFailed, Reason: fmt.Sprintf("load dump: %v", err)}
	}

	community := communityOf(device.Protocol)
	r, err := responder.New(device, community, data, responder.Options{
		OnPacket: s.metrics.OnPacket,
		OnError:  s.metrics.OnDecodeError,
	})
	if err != nil {
		s.event("start_failed")
		return &domain.SupervisorError{Kind: domain.StartFailed, Reason: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.responders[device.ID]; exists {
		r.Stop()
		s.event("already_running")
		return &domain.SupervisorError{Kind: domain.DeviceAlreadyRunning}
	}
	s.responders[device.ID] = r
	s.event("started")
	s.reportRunningLocked()

	go s.watch(device.ID, r)
	return nil
}

// watch removes a responder from the registry if it exits on its own
// (panic or IO crash), per the "no auto-restart" default: a failed device
// becomes stopped and must be restarted explicitly. An explicit Stop
// already removes the entry before signaling the responder, so this is a
// no-op in that path.
func (s *Supervisor) watch(deviceID string, r *responder.Responder) {
	<-r.Done()
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.responders[deviceID]; ok && current == r {
		delete(s.responders, deviceID)
		s.event("responder_crashed")
		s.reportRunningLocked()
	}
}

// Stop implements domain.Runtime. If the device id is absent it returns
// DeviceNotRunning; otherwise it removes the responder from the registry
// and signals it to stop, waiting (bounded, inside Responder.Stop) for
// acknowledgement.
func (s *Supervisor) Stop(deviceID string) error {
	s.mu.Lock()
	r, exists := s.responders[deviceID]
	if !exists {
		s.mu.Unlock()
		s.event("not_running")
		return &domain.SupervisorError{Kind: domain.DeviceNotRunning}
	}
	delete(s.responders, deviceID)
	s.reportRunningLocked()
	s.mu.Unlock()

	r.Stop()
	s.event("stopped")
	return nil
}

// IsRunning implements domain.Runtime.
func (s *Supervisor) IsRunning(deviceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.responders[deviceID]
	return exists
}

// Shutdown stops every registered responder. Idempotent.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	responders := make([]*responder.Responder, 0, len(s.responders))
	for id, r := range s.responders {
		responders = append(responders, r)
		delete(s.responders, id)
	}
	s.reportRunningLocked()
	s.mu.Unlock()

	for _, r := range responders {
		r.Stop()
	}
}

// RunningCount reports the number of active responders.
func (s *Supervisor) RunningCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.responders)
}

func (s *Supervisor) event(outcome string) {
	if s.metrics.OnSupervisorEvent != nil {
		s.metrics.OnSupervisorEvent(outcome)
	}
}

// reportRunningLocked reports the current registry size to the
// running-device gauge hook; callers must hold s.mu.
func (s *Supervisor) reportRunningLocked() {
	if s.metrics.OnRunningChanged != nil {
		s.metrics.OnRunningChanged(len(s.responders))
	}
}

func communityOf(attrs domain.SnmpProtocolAttributes) string {
	switch p := attrs.(type) {
	case domain.SnmpV1Attributes:
		return p.Community
	case domain.SnmpV2cAttributes:
		return p.Community
	default:
		return ""
	}
}
