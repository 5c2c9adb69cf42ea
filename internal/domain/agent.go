package domain

import "time"

// Agent is an immutable template referenced by Devices: a captured SNMP
// dump plus descriptive metadata. Destroyed only when no Device
// references it; referential integrity is enforced by the facade.
type Agent struct {
	ID          string
	Name        string
	Description string
	SnmpDataURL string // filesystem path to the dump file
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
