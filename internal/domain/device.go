package domain

import "time"

// DeviceStatus reflects supervisor-observed runtime state. Never stored
// durably: a restart always reports every device Stopped, per the
// "restarting the process leaves all devices stopped" rule.
type DeviceStatus int

const (
	Stopped DeviceStatus = iota
	Running
)

func (s DeviceStatus) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Device is the runtime instance a client registers and starts: it binds
// a UDP endpoint, adopts an Agent's dump, and answers SNMP requests using
// one protocol credential set.
type Device struct {
	ID          string
	Name        string
	Description string
	AgentID     string
	SnmpHost    string
	SnmpPort    int
	Protocol    SnmpProtocolAttributes
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
