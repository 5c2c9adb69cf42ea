// Package httpapi is the thin REST layer over the Domain Facade: an
// ambient concern standing in for the management API spec.md treats as
// an external collaborator. No business logic lives here; every handler
// calls the facade and translates domain.Error into an HTTP status.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snmpfleet/snmpfleet/internal/domain"
	"github.com/snmpfleet/snmpfleet/internal/metrics"
)

// Server wraps the facade in a net/http.ServeMux-based REST surface.
type Server struct {
	facade     *domain.Facade
	httpServer *http.Server
}

// New builds a Server listening on addr. If m is non-nil, /metrics is
// registered against its registry.
func New(addr string, facade *domain.Facade, m *metrics.Metrics) *Server {
	mux := http.NewServeMux()
	s := &Server{facade: facade}

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("POST /agents", s.handleCreateAgent)
	mux.HandleFunc("GET /agents", s.handleListAgents)
	mux.HandleFunc("GET /agents/{id}", s.handleGetAgent)
	mux.HandleFunc("PUT /agents/{id}", s.handleUpdateAgent)
	mux.HandleFunc("DELETE /agents/{id}", s.handleDeleteAgent)

	mux.HandleFunc("POST /devices", s.handleCreateDevice)
	mux.HandleFunc("GET /devices", s.handleListDevices)
	mux.HandleFunc("GET /devices/{id}", s.handleGetDevice)
	mux.HandleFunc("PUT /devices/{id}", s.handleUpdateDevice)
	mux.HandleFunc("DELETE /devices/{id}", s.handleDeleteDevice)
	mux.HandleFunc("POST /devices/{id}/start", s.handleStartDevice)
	mux.HandleFunc("POST /devices/{id}/stop", s.handleStopDevice)

	if m != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	}

	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown() error {
	return s.httpServer.Close()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// writeError translates a domain.Error into the corresponding HTTP
// status per spec: 400 validation, 404 not found, 409 conflict, 500
// unexpected.
func writeError(w http.ResponseWriter, err error) {
	de, ok := err.(*domain.Error)
	if !ok {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusInternalServerError
	switch de.Kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	}
	http.Error(w, de.Message, status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// agentPayload is the wire shape for Agent create/update/read.
type agentPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SnmpDataURL string    `json:"snmp_data_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toAgentPayload(a domain.Agent) agentPayload {
	return agentPayload{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		SnmpDataURL: a.SnmpDataURL,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateAgentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, err := s.facade.CreateAgent(in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAgentPayload(a))
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents := s.facade.ListAgents()
	out := make([]agentPayload, 0, len(agents))
	for _, a := range agents {
		out = append(out, toAgentPayload(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	a, err := s.facade.GetAgent(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAgentPayload(a))
}

func (s *Server) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateAgentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, err := s.facade.UpdateAgent(r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAgentPayload(a))
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := s.facade.DeleteAgent(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// devicePayload flattens SnmpProtocolAttributes to three optional fields
// for wire convenience; exactly one of them is set, matching the device's
// protocol variant.
type devicePayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	AgentID     string    `json:"agent_id"`
	SnmpHost    string    `json:"snmp_host"`
	SnmpPort    int       `json:"snmp_port"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	SnmpV1  *v1Payload `json:"snmp_v1,omitempty"`
	SnmpV2c *v2Payload `json:"snmp_v2c,omitempty"`
	SnmpV3  *v3Payload `json:"snmp_v3,omitempty"`
}

type v1Payload struct {
	Community string `json:"community"`
}

type v2Payload struct {
	Community string `json:"community"`
}

type v3Payload struct {
	User           string `json:"user"`
	Authentication string `json:"authentication"`
	AuthPassword   string `json:"authentication_password"`
	Encryption     string `json:"encryption"`
	EncryptionKey  string `json:"encryption_key"`
}

type createDeviceRequest struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	AgentID     string     `json:"agent_id"`
	SnmpHost    string     `json:"snmp_host"`
	SnmpPort    int        `json:"snmp_port"`
	SnmpV1      *v1Payload `json:"snmp_v1"`
	SnmpV2c     *v2Payload `json:"snmp_v2c"`
	SnmpV3      *v3Payload `json:"snmp_v3"`
}

func (s *Server) toDevicePayload(d domain.Device) devicePayload {
	status, _ := s.facade.Status(d.ID)
	p := devicePayload{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		AgentID:     d.AgentID,
		SnmpHost:    d.SnmpHost,
		SnmpPort:    d.SnmpPort,
		Status:      status.String(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	switch proto := d.Protocol.(type) {
	case domain.SnmpV1Attributes:
		p.SnmpV1 = &v1Payload{Community: proto.Community}
	case domain.SnmpV2cAttributes:
		p.SnmpV2c = &v2Payload{Community: proto.Community}
	case domain.SnmpV3Attributes:
		p.SnmpV3 = &v3Payload{
			User:           proto.User,
			Authentication: authString(proto.AuthAlgorithm),
			AuthPassword:   proto.AuthPassword,
			Encryption:     encString(proto.EncAlgorithm),
			EncryptionKey:  proto.EncKey,
		}
	}
	return p
}

func authString(a domain.AuthAlgorithm) string {
	if a == domain.AuthSHA {
		return "sha"
	}
	return "md5"
}

func encString(e domain.EncAlgorithm) string {
	if e == domain.EncAES {
		return "aes"
	}
	return "des"
}

func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req createDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	in := domain.CreateDeviceInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		AgentID:     req.AgentID,
		SnmpHost:    req.SnmpHost,
		SnmpPort:    req.SnmpPort,
	}
	if req.SnmpV1 != nil {
		in.V1 = &domain.SnmpV1Attributes{Community: req.SnmpV1.Community}
	}
	if req.SnmpV2c != nil {
		in.V2c = &domain.SnmpV2cAttributes{Community: req.SnmpV2c.Community}
	}
	if req.SnmpV3 != nil {
		in.V3 = &domain.SnmpV3Attributes{
			User:         req.SnmpV3.User,
			AuthPassword: req.SnmpV3.AuthPassword,
			EncKey:       req.SnmpV3.EncryptionKey,
		}
		if req.SnmpV3.Authentication == "sha" {
			in.V3.AuthAlgorithm = domain.AuthSHA
		}
		if req.SnmpV3.Encryption == "aes" {
			in.V3.EncAlgorithm = domain.EncAES
		}
	}

	d, err := s.facade.CreateDevice(in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.toDevicePayload(d))
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices := s.facade.ListDevices()
	out := make([]devicePayload, 0, len(devices))
	for _, d := range devices {
		out = append(out, s.toDevicePayload(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	d, err := s.facade.GetDevice(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toDevicePayload(d))
}

// handleUpdateDevice reuses the createDeviceRequest wire shape: a zero
// value for a given field leaves the stored device's field unchanged, per
// domain.UpdateDeviceInput's partial-update convention.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	var req createDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	in := domain.UpdateDeviceInput{
		Name:        req.Name,
		Description: req.Description,
		SnmpHost:    req.SnmpHost,
		SnmpPort:    req.SnmpPort,
	}
	if req.SnmpV1 != nil {
		in.V1 = &domain.SnmpV1Attributes{Community: req.SnmpV1.Community}
	}
	if req.SnmpV2c != nil {
		in.V2c = &domain.SnmpV2cAttributes{Community: req.SnmpV2c.Community}
	}
	if req.SnmpV3 != nil {
		in.V3 = &domain.SnmpV3Attributes{
			User:         req.SnmpV3.User,
			AuthPassword: req.SnmpV3.AuthPassword,
			EncKey:       req.SnmpV3.EncryptionKey,
		}
		if req.SnmpV3.Authentication == "sha" {
			in.V3.AuthAlgorithm = domain.AuthSHA
		}
		if req.SnmpV3.Encryption == "aes" {
			in.V3.EncAlgorithm = domain.EncAES
		}
	}

	d, err := s.facade.UpdateDevice(r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toDevicePayload(d))
}

func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	if err := s.facade.DeleteDevice(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartDevice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.facade.StartDevice(id); err != nil {
		writeError(w, err)
		return
	}
	d, err := s.facade.GetDevice(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toDevicePayload(d))
}

func (s *Server) handleStopDevice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.facade.StopDevice(id); err != nil {
		writeError(w, err)
		return
	}
	d, err := s.facade.GetDevice(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toDevicePayload(d))
}
