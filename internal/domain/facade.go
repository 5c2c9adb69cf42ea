package domain

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// Facade validates inbound Agent/Device records, maps protocol credential
// payloads to the SnmpProtocolAttributes tagged union, and drives the
// runtime (device lifecycle supervisor) on Start/Stop. It is the sole
// entry point the HTTP management layer and the CLI daemon's fleet loader
// are expected to call.
type Facade struct {
	store   Store
	runtime Runtime
	now     func() time.Time
}

func NewFacade(store Store, runtime Runtime) *Facade {
	return &Facade{store: store, runtime: runtime, now: time.Now}
}

// CreateAgentInput is the wire-agnostic shape accepted by CreateAgent.
type CreateAgentInput struct {
	ID          string
	Name        string
	Description string
	SnmpDataURL string
}

func (f *Facade) CreateAgent(in CreateAgentInput) (Agent, error) {
	if in.ID == "" {
		return Agent{}, Validation("agent id is required")
	}
	if in.Name == "" {
		return Agent{}, Validation("agent name is required")
	}
	if in.SnmpDataURL == "" {
		return Agent{}, Validation("snmp_data_url is required")
	}
	if _, exists := f.store.GetAgent(in.ID); exists {
		return Agent{}, Conflict("agent %q already exists", in.ID)
	}

	now := f.now()
	a := Agent{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		SnmpDataURL: in.SnmpDataURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := f.store.PutAgent(a); err != nil {
		return Agent{}, Unexpected(err)
	}
	return a, nil
}

func (f *Facade) GetAgent(id string) (Agent, error) {
	a, ok := f.store.GetAgent(id)
	if !ok {
		return Agent{}, NotFound("agent %q not found", id)
	}
	return a, nil
}

func (f *Facade) ListAgents() []Agent {
	return f.store.ListAgents()
}

func (f *Facade) UpdateAgent(id string, in CreateAgentInput) (Agent, error) {
	existing, ok := f.store.GetAgent(id)
	if !ok {
		return Agent{}, NotFound("agent %q not found", id)
	}
	if in.Name != "" {
		existing.Name = in.Name
	}
	if in.Description != "" {
		existing.Description = in.Description
	}
	if in.SnmpDataURL != "" {
		existing.SnmpDataURL = in.SnmpDataURL
	}
	existing.UpdatedAt = f.now()
	if err := f.store.PutAgent(existing); err != nil {
		return Agent{}, Unexpected(err)
	}
	return existing, nil
}

func (f *Facade) DeleteAgent(id string) error {
	if _, ok := f.store.GetAgent(id); !ok {
		return NotFound("agent %q not found", id)
	}
	if n := f.store.DeviceCountForAgent(id); n > 0 {
		return Conflict("agent %q is referenced by %d device(s)", id, n)
	}
	if err := f.store.DeleteAgent(id); err != nil {
		return Unexpected(err)
	}
	return nil
}

// CreateDeviceInput carries the "three optional fields" convenience shape
// the HTTP layer uses; the facade enforces that exactly one is populated
// before constructing the SnmpProtocolAttributes sum type.
type CreateDeviceInput struct {
	ID          string
	Name        string
	Description string
	AgentID     string
	SnmpHost    string
	SnmpPort    int

	V1  *SnmpV1Attributes
	V2c *SnmpV2cAttributes
	V3  *SnmpV3Attributes
}

func (f *Facade) CreateDevice(in CreateDeviceInput) (Device, error) {
	if in.ID == "" {
		return Device{}, Validation("device id is required")
	}
	if in.Name == "" {
		return Device{}, Validation("device name is required")
	}
	if in.SnmpHost == "" {
		return Device{}, Validation("snmp_host is required")
	}
	if in.SnmpPort <= 0 || in.SnmpPort > 65535 {
		return Device{}, Validation("snmp_port must be in 1..65535")
	}
	if net.ParseIP(in.SnmpHost) == nil {
		return Device{}, Validation("snmp_host %q is not a valid IP address", in.SnmpHost)
	}
	if _, ok := f.store.GetAgent(in.AgentID); !ok {
		return Device{}, Validation("agent_id %q does not reference an existing agent", in.AgentID)
	}
	if _, exists := f.store.GetDevice(in.ID); exists {
		return Device{}, Conflict("device %q already exists", in.ID)
	}

	protocol, err := resolveProtocol(in)
	if err != nil {
		return Device{}, err
	}

	now := f.now()
	d := Device{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		AgentID:     in.AgentID,
		SnmpHost:    in.SnmpHost,
		SnmpPort:    in.SnmpPort,
		Protocol:    protocol,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := f.store.PutDevice(d); err != nil {
		return Device{}, Unexpected(err)
	}
	return d, nil
}

// resolveProtocol enforces "exactly one of {snmp_v1, snmp_v2c, snmp_v3}"
// and builds the corresponding tagged variant.
func resolveProtocol(in CreateDeviceInput) (SnmpProtocolAttributes, error) {
	set := 0
	if in.V1 != nil {
		set++
	}
	if in.V2c != nil {
		set++
	}
	if in.V3 != nil {
		set++
	}
	if set != 1 {
		return nil, Validation("exactly one of snmp_v1, snmp_v2c, snmp_v3 must be set")
	}

	switch {
	case in.V1 != nil:
		if strings.TrimSpace(in.V1.Community) == "" {
			return nil, Validation("snmp_v1.community is required")
		}
		return *in.V1, nil
	case in.V2c != nil:
		if strings.TrimSpace(in.V2c.Community) == "" {
			return nil, Validation("snmp_v2c.community is required")
		}
		return *in.V2c, nil
	default:
		if strings.TrimSpace(in.V3.User) == "" {
			return nil, Validation("snmp_v3.user is required")
		}
		return *in.V3, nil
	}
}

// UpdateDeviceInput mirrors UpdateAgent's partial-update convention:
// a zero-value field leaves the existing device field untouched, and a
// non-nil protocol variant re-resolves the SnmpProtocolAttributes union.
type UpdateDeviceInput struct {
	Name        string
	Description string
	SnmpHost    string
	SnmpPort    int

	V1  *SnmpV1Attributes
	V2c *SnmpV2cAttributes
	V3  *SnmpV3Attributes
}

func (f *Facade) UpdateDevice(id string, in UpdateDeviceInput) (Device, error) {
	existing, ok := f.store.GetDevice(id)
	if !ok {
		return Device{}, NotFound("device %q not found", id)
	}
	if f.runtime.IsRunning(id) {
		return Device{}, Conflict("device %q is running; stop it before updating", id)
	}

	if in.Name != "" {
		existing.Name = in.Name
	}
	if in.Description != "" {
		existing.Description = in.Description
	}
	if in.SnmpHost != "" {
		if net.ParseIP(in.SnmpHost) == nil {
			return Device{}, Validation("snmp_host %q is not a valid IP address", in.SnmpHost)
		}
		existing.SnmpHost = in.SnmpHost
	}
	if in.SnmpPort != 0 {
		if in.SnmpPort <= 0 || in.SnmpPort > 65535 {
			return Device{}, Validation("snmp_port must be in 1..65535")
		}
		existing.SnmpPort = in.SnmpPort
	}
	if in.V1 != nil || in.V2c != nil || in.V3 != nil {
		protocol, err := resolveProtocol(CreateDeviceInput{V1: in.V1, V2c: in.V2c, V3: in.V3})
		if err != nil {
			return Device{}, err
		}
		existing.Protocol = protocol
	}

	existing.UpdatedAt = f.now()
	if err := f.store.PutDevice(existing); err != nil {
		return Device{}, Unexpected(err)
	}
	return existing, nil
}

func (f *Facade) GetDevice(id string) (Device, error) {
	d, ok := f.store.GetDevice(id)
	if !ok {
		return Device{}, NotFound("device %q not found", id)
	}
	return d, nil
}

func (f *Facade) ListDevices() []Device {
	return f.store.ListDevices()
}

func (f *Facade) DeleteDevice(id string) error {
	d, ok := f.store.GetDevice(id)
	if !ok {
		return NotFound("device %q not found", id)
	}
	if f.runtime.IsRunning(d.ID) {
		return Conflict("device %q is running; stop it before deleting", id)
	}
	if err := f.store.DeleteDevice(id); err != nil {
		return Unexpected(err)
	}
	return nil
}

// Status reports the observed runtime status of a device; it is never
// persisted.
func (f *Facade) Status(id string) (DeviceStatus, error) {
	if _, ok := f.store.GetDevice(id); !ok {
		return Stopped, NotFound("device %q not found", id)
	}
	if f.runtime.IsRunning(id) {
		return Running, nil
	}
	return Stopped, nil
}

// StartDevice starts the responder for device id via the runtime,
// translating SupervisorError into the normalized taxonomy.
func (f *Facade) StartDevice(id string) error {
	d, ok := f.store.GetDevice(id)
	if !ok {
		return NotFound("device %q not found", id)
	}
	a, ok := f.store.GetAgent(d.AgentID)
	if !ok {
		return Unexpected(fmt.Errorf("device %q references missing agent %q", id, d.AgentID))
	}

	if err := f.runtime.Start(d, a.SnmpDataURL); err != nil {
		return translateSupervisorError(err)
	}
	return nil
}

// StopDevice stops the responder for device id via the runtime.
func (f *Facade) StopDevice(id string) error {
	if _, ok := f.store.GetDevice(id); !ok {
		return NotFound("device %q not found", id)
	}
	if err := f.runtime.Stop(id); err != nil {
		return translateSupervisorError(err)
	}
	return nil
}

func translateSupervisorError(err error) error {
	se, ok := err.(*SupervisorError)
	if !ok {
		return Unexpected(err)
	}
	switch se.Kind {
	case DeviceAlreadyRunning:
		return Conflict("device already running")
	case DeviceNotRunning:
		return Conflict("device not running")
	case StartFailed:
		return Validation("start failed: %s", se.Reason)
	default:
		return Unexpected(err)
	}
}
