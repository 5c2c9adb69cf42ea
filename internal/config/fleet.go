// Package config loads a YAML fleet definition (agents and devices) into
// domain objects via the Domain Facade's validation path, so a malformed
// fleet file surfaces the same validation error a REST caller would get.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/snmpfleet/snmpfleet/internal/domain"
)

type agentSpec struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	SnmpDataURL string `yaml:"snmp_data_url"`
}

type deviceSpec struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	AgentID     string `yaml:"agent_id"`
	SnmpHost    string `yaml:"snmp_host"`
	SnmpPort    int    `yaml:"snmp_port"`
	Autostart   bool   `yaml:"autostart"`

	V1  *v1Spec `yaml:"snmp_v1"`
	V2c *v2Spec `yaml:"snmp_v2c"`
	V3  *v3Spec `yaml:"snmp_v3"`
}

type v1Spec struct {
	Community string `yaml:"community"`
}

type v2Spec struct {
	Community string `yaml:"community"`
}

type v3Spec struct {
	User           string `yaml:"user"`
	Authentication string `yaml:"authentication"`
	AuthPassword   string `yaml:"authentication_password"`
	Encryption     string `yaml:"encryption"`
	EncryptionKey  string `yaml:"encryption_key"`
}

// Fleet is the YAML document shape: a set of Agents and Devices.
type Fleet struct {
	Agents  []agentSpec  `yaml:"agents"`
	Devices []deviceSpec `yaml:"devices"`
}

// LoadResult is which device ids were marked autostart: true in the
// fleet file, returned alongside the seeded records so the caller can
// decide whether to start them.
type LoadResult struct {
	AutostartDeviceIDs []string
}

// Load reads a fleet YAML file and seeds the facade's Agent and Device
// records through its normal validation path.
func Load(path string, facade *domain.Facade) (LoadResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("read fleet file: %w", err)
	}

	var fleet Fleet
	if err := yaml.Unmarshal(raw, &fleet); err != nil {
		return LoadResult{}, fmt.Errorf("parse fleet yaml: %w", err)
	}

	for _, a := range fleet.Agents {
		if _, err := facade.CreateAgent(domain.CreateAgentInput{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			SnmpDataURL: a.SnmpDataURL,
		}); err != nil {
			return LoadResult{}, fmt.Errorf("agent %q: %w", a.ID, err)
		}
	}

	var result LoadResult
	for _, d := range fleet.Devices {
		in := domain.CreateDeviceInput{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			AgentID:     d.AgentID,
			SnmpHost:    d.SnmpHost,
			SnmpPort:    d.SnmpPort,
		}
		if d.V1 != nil {
			in.V1 = &domain.SnmpV1Attributes{Community: d.V1.Community}
		}
		if d.V2c != nil {
			in.V2c = &domain.SnmpV2cAttributes{Community: d.V2c.Community}
		}
		if d.V3 != nil {
			in.V3 = &domain.SnmpV3Attributes{
				User:          d.V3.User,
				AuthAlgorithm: parseAuthAlgorithm(d.V3.Authentication),
				AuthPassword:  d.V3.AuthPassword,
				EncAlgorithm:  parseEncAlgorithm(d.V3.Encryption),
				EncKey:        d.V3.EncryptionKey,
			}
		}

		if _, err := facade.CreateDevice(in); err != nil {
			return LoadResult{}, fmt.Errorf("device %q: %w", d.ID, err)
		}
		if d.Autostart {
			result.AutostartDeviceIDs = append(result.AutostartDeviceIDs, d.ID)
		}
	}

	return result, nil
}

func parseAuthAlgorithm(s string) domain.AuthAlgorithm {
	if strings.EqualFold(s, "sha") {
		return domain.AuthSHA
	}
	return domain.AuthMD5
}

func parseEncAlgorithm(s string) domain.EncAlgorithm {
	if strings.EqualFold(s, "aes") {
		return domain.EncAES
	}
	return domain.EncDES
}
