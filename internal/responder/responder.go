// Package responder implements the per-device UDP SNMP responder: one
// long-lived goroutine owning one UDP socket, decoding requests through
// the codec, dispatching to the PDU handler against a frozen OID map, and
// framing responses back.
package responder

import (
	"fmt"
	"log"
	"net"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/snmpfleet/snmpfleet/internal/codec"
	"github.com/snmpfleet/snmpfleet/internal/domain"
	"github.com/snmpfleet/snmpfleet/internal/pdu"
	"github.com/snmpfleet/snmpfleet/internal/snmpdata"
)

// outboundSend is a response payload queued for delivery to a peer,
// the mailbox entry the responder's own goroutine drains and writes to
// its socket so the UDP connection is never touched concurrently.
type outboundSend struct {
	payload []byte
	addr    *net.UDPAddr
}

// Responder owns one device's UDP socket and OID map for its lifetime.
type Responder struct {
	deviceID  string
	community string
	data      *snmpdata.Map

	conn    *net.UDPConn
	outbox  chan outboundSend
	stop    chan struct{}
	done    chan struct{}
	running atomic.Bool

	packetsHandled atomic.Int64
	decodeErrors   atomic.Int64

	onPacket func(deviceID string, pduType string)
	onError  func(deviceID string, reason string)
}

// StartFailed reports that construction could not bind or tune the
// socket; the responder is never created in this case. Dump load failures
// are reported by the supervisor, which loads the dump before New.
type StartFailed struct {
	Reason string
}

func (e *StartFailed) Error() string { return e.Reason }

// Options configures optional hooks a supervisor may attach for metrics.
type Options struct {
	OnPacket func(deviceID string, pduType string)
	OnError  func(deviceID string, reason string)
}

// New binds a UDP socket for device and starts its recv loop. Binding
// failure is returned synchronously; data must already be loaded and
// frozen by the caller (the supervisor owns the dump-load step so the
// same failure surfaces uniformly as StartFailed).
func New(device domain.Device, community string, data *snmpdata.Map, opts Options) (*Responder, error) {
	addr := net.UDPAddr{IP: net.ParseIP(device.SnmpHost), Port: device.SnmpPort}
	conn, err := net.ListenUDP("udp", &addr)
	if err != nil {
		return nil, &StartFailed{Reason: fmt.Sprintf("bind %s:%d: %v", device.SnmpHost, device.SnmpPort, err)}
	}
	if err := tuneSocket(conn); err != nil {
		_ = conn.Close()
		return nil, &StartFailed{Reason: fmt.Sprintf("tune socket: %v", err)}
	}

	r := &Responder{
		deviceID:  device.ID,
		community: community,
		data:      data,
		conn:      conn,
		outbox:    make(chan outboundSend, 64),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		onPacket:  opts.OnPacket,
		onError:   opts.OnError,
	}
	r.running.Store(true)

	go r.loop()
	return r, nil
}

// loop is the single goroutine that owns the socket: it multiplexes
// incoming datagrams, queued outbound sends, and the stop signal.
func (r *Responder) loop() {
	defer close(r.done)
	defer r.conn.Close()

	buf := make([]byte, 4096)

	for {
		select {
		case <-r.stop:
			r.drainOutbox()
			return
		case out := <-r.outbox:
			r.send(out)
		default:
		}

		r.conn.SetReadDeadline(time.Now().Add(1 * time.Second))
		n, peer, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			select {
			case <-r.stop:
				r.drainOutbox()
				return
			default:
			}
			// A non-timeout, non-stop read error means the socket is no
			// longer usable; exit so the supervisor can observe Done()
			// and remove this responder from its registry.
			log.Printf("responder %s: socket error, exiting loop: %v", r.deviceID, err)
			r.running.Store(false)
			return
		}

		r.handleDatagram(buf[:n], peer)
	}
}

// Done closes when the responder's loop has exited, whether by an
// explicit Stop or an unexpected socket failure.
func (r *Responder) Done() <-chan struct{} {
	return r.done
}

func (r *Responder) handleDatagram(raw []byte, peer *net.UDPAddr) {
	req, err := codec.Decode(raw, r.community)
	if err != nil {
		r.decodeErrors.Add(1)
		if r.onError != nil {
			r.onError(r.deviceID, "decode")
		}
		log.Printf("responder %s: dropping datagram from %s: %v", r.deviceID, peer, err)
		return
	}

	resp := pdu.Handle(r.data, req)
	r.packetsHandled.Add(1)
	if r.onPacket != nil {
		r.onPacket(r.deviceID, fmt.Sprintf("%v", req.PDUType))
	}

	payload, err := codec.Encode(resp)
	if err != nil {
		if r.onError != nil {
			r.onError(r.deviceID, "encode")
		}
		log.Printf("responder %s: failed to encode response to %s: %v", r.deviceID, peer, err)
		return
	}

	select {
	case r.outbox <- outboundSend{payload: payload, addr: peer}:
	default:
		log.Printf("responder %s: outbox full, dropping response to %s", r.deviceID, peer)
	}
}

func (r *Responder) send(out outboundSend) {
	if _, err := r.conn.WriteToUDP(out.payload, out.addr); err != nil {
		log.Printf("responder %s: send to %s failed: %v", r.deviceID, out.addr, err)
	}
}

func (r *Responder) drainOutbox() {
	for {
		select {
		case out := <-r.outbox:
			r.send(out)
		default:
			return
		}
	}
}

// Stop signals the responder to exit its loop and waits (bounded) for
// acknowledgement. On timeout the responder is considered stopped
// regardless, per the supervisor's bounded-wait contract.
func (r *Responder) Stop() {
	if !r.running.CompareAndSwap(true, false) {
		return
	}
	close(r.stop)
	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
	}
}

// Addr returns the bound local address.
func (r *Responder) Addr() net.Addr {
	return r.conn.LocalAddr()
}

// tuneSocket sets receive/send buffer sizes and SO_REUSEPORT, mirroring
// the socket tuning a production UDP listener needs under burst traffic.
func tuneSocket(conn *net.UDPConn) error {
	rawConn, err := conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("raw conn: %w", err)
	}

	var setErr error
	err = rawConn.Control(func(fd uintptr) {
		ifd := int(fd)
		if e := syscall.SetsockoptInt(ifd, syscall.SOL_SOCKET, syscall.SO_RCVBUF, 256*1024); e != nil {
			setErr = fmt.Errorf("SO_RCVBUF: %w", e)
			return
		}
		if e := syscall.SetsockoptInt(ifd, syscall.SOL_SOCKET, syscall.SO_SNDBUF, 256*1024); e != nil {
			setErr = fmt.Errorf("SO_SNDBUF: %w", e)
			return
		}
		if e := syscall.SetsockoptInt(ifd, syscall.SOL_SOCKET, int(unix.SO_REUSEPORT), 1); e != nil {
			log.Printf("responder: SO_REUSEPORT not available: %v", e)
		}
	})
	if err != nil {
		return fmt.Errorf("control: %w", err)
	}
	return setErr
}
