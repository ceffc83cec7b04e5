// Package session implements the half-duplex link-layer state machine
// (spec.md §4.3): role tracking, the single outstanding downlink slot,
// bounded retransmission, and linefault latch/clear, all driven by
// Receive/Diagnostics calls from a single-threaded dispatch loop (spec
// §5). Session never touches the wire directly beyond writing raw
// bytes to its PortWriter collaborator; framing calls internal/codec
// directly, and classifier dispatch is injected through Dispatcher.
package session

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kelthane-iot/alplink/internal/codec"
	"github.com/kelthane-iot/alplink/internal/rxbuffer"
	"github.com/kelthane-iot/alplink/internal/snap"
)

// State is the link-layer role (spec §3). The zero value is Idle.
type State int

const (
	Idle State = iota
	ActiveMaster
	ActiveClient
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ActiveMaster:
		return "active_master"
	case ActiveClient:
		return "active_client"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Control bytes, unframed, inspected before frame parsing (spec §4.3).
const (
	ACK byte = 0x06
	NAK byte = 0x15
	ENQ byte = 0x05
	EOT byte = 0x04
)

func isControlByte(b byte) bool {
	switch b {
	case ACK, NAK, ENQ, EOT:
		return true
	default:
		return false
	}
}

// Cause names why a retransmit was triggered; the retry budget depends
// on it (spec §4.3).
type Cause int

const (
	NACKED Cause = iota
	NoReply
)

func (c Cause) String() string {
	if c == NACKED {
		return "nacked"
	}
	return "no_reply"
}

// Defaults from spec.md §6, used until SetRetryLimits/SetSilenceTimeouts
// install config-supplied values.
const (
	defaultResendLimit    = 10
	defaultResendLimitNAK = 5

	DiagnosticsInterval           = 5 * time.Second
	defaultDownlinkSilenceTimeout = 4500 * time.Millisecond
	defaultUplinkSilenceTimeout   = 19500 * time.Millisecond
)

// PortWriter is the byte-stream collaborator a Session writes its
// control and framed bytes to. IsOpen lets Diagnostics and the
// transmit paths implement the port-closed no-op rule (spec §5, §7).
type PortWriter interface {
	Write(p []byte) (int, error)
	IsOpen() bool
}

// Dispatcher receives a non-empty decoded SNAP message for
// profile-specific classification and forwarding (spec §4.4). Session
// itself has no opinion on classification or alarm sinks; PortAdapter
// supplies the Dispatcher.
type Dispatcher interface {
	Dispatch(msg snap.Message)
}

// FaultSink is notified of linefault raise/clear transitions.
type FaultSink interface {
	FaultDetected(tag string)
	FaultCleared(tag string)
}

// FrameMetrics receives optional per-event counters. SetMetrics is the
// only way to install one; a Session built via New reports to a no-op
// implementation until then.
type FrameMetrics interface {
	FrameParsed()
	FrameNAKed()
	Retransmit(cause string)
}

type noopMetrics struct{}

func (noopMetrics) FrameParsed()         {}
func (noopMetrics) FrameNAKed()          {}
func (noopMetrics) Retransmit(cause string) {}

type downlinkSlot struct {
	data            []byte
	retransmitCount int
}

// Session is one port's link-layer state machine. It is not safe for
// concurrent use; the single dispatch loop per port (spec §5) owns it
// exclusively.
type Session struct {
	port       PortWriter
	dispatcher Dispatcher
	faultSink  FaultSink
	metrics    FrameMetrics
	log        *logrus.Entry
	now        func() time.Time

	state State
	slot  downlinkSlot
	faults faultSet

	resendLimit    int
	resendLimitNAK int

	downlinkSilenceTimeout time.Duration
	uplinkSilenceTimeout   time.Duration

	latestDownlinkEventTime time.Time
	latestUplinkEventTime   time.Time

	rx rxbuffer.Buffer

	txCounter uint32

	// initialLivenessSent guards the one-shot "line_fault_over_msg_sent"
	// notification (spec §9): fired on the very first successful uplink
	// after construction even when no linefault was ever raised.
	initialLivenessSent bool
}

// New constructs a Session. port, dispatcher, and faultSink must be
// non-nil. log may be nil, which falls back to the standard logger.
func New(port PortWriter, dispatcher Dispatcher, faultSink FaultSink, log *logrus.Entry) *Session {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	start := time.Now()
	return &Session{
		port:                    port,
		dispatcher:              dispatcher,
		faultSink:               faultSink,
		metrics:                 noopMetrics{},
		log:                     log,
		now:                     time.Now,
		faults:                  make(faultSet),
		resendLimit:             defaultResendLimit,
		resendLimitNAK:          defaultResendLimitNAK,
		downlinkSilenceTimeout:  defaultDownlinkSilenceTimeout,
		uplinkSilenceTimeout:    defaultUplinkSilenceTimeout,
		latestDownlinkEventTime: start,
		latestUplinkEventTime:   start,
	}
}

// SetMetrics installs m to receive frame/retransmit counters. Passing
// nil restores the no-op default.
func (s *Session) SetMetrics(m FrameMetrics) {
	if m == nil {
		m = noopMetrics{}
	}
	s.metrics = m
}

// SetRetryLimits overrides the retransmit budgets (spec.md §6:
// resend_limit, resend_limit_nak) from their package defaults.
func (s *Session) SetRetryLimits(resendLimit, resendLimitNAK int) {
	s.resendLimit = resendLimit
	s.resendLimitNAK = resendLimitNAK
}

// SetSilenceTimeouts overrides the downlink/uplink silence thresholds
// (spec.md §6: downlink_silence_timeout, uplink_silence_timeout) that
// Diagnostics measures against.
func (s *Session) SetSilenceTimeouts(downlink, uplink time.Duration) {
	s.downlinkSilenceTimeout = downlink
	s.uplinkSilenceTimeout = uplink
}

// SetClock overrides the time source, for deterministic tests.
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
	t := now()
	s.latestDownlinkEventTime = t
	s.latestUplinkEventTime = t
}

// State reports the current link-layer role.
func (s *Session) State() State { return s.state }

// Active reports whether the session is currently exchanging frames
// (spec §3: active iff state ∈ {ACTIVE_MASTER, ACTIVE_CLIENT}).
func (s *Session) Active() bool {
	return s.state == ActiveMaster || s.state == ActiveClient
}

// HasFault reports whether tag is currently latched.
func (s *Session) HasFault(tag string) bool {
	return s.faults.has(tag)
}

func (s *Session) beginMaster() {
	if !s.Active() {
		s.state = ActiveMaster
	}
}

func (s *Session) beginClient() {
	if !s.Active() {
		s.state = ActiveClient
	}
}

// finish ends the exchange: state goes to FINISHED, the downlink slot
// is discarded, and retransmit_count resets to 0 (spec §3 invariant:
// "retransmit count is reset to 0 on every transition to FINISHED").
func (s *Session) finish() {
	s.state = Finished
	s.slot = downlinkSlot{}
}

func (s *Session) writeRaw(p []byte) {
	if !s.port.IsOpen() {
		s.log.Debug("write skipped: port closed")
		return
	}
	if _, err := s.port.Write(p); err != nil {
		s.log.WithError(err).Warn("port write failed")
	}
}

// Transmit frames msg via the codec, stores it as the outstanding
// downlink, and writes it to the port (spec §4.3). If the session is
// idle it becomes ACTIVE_MASTER.
func (s *Session) Transmit(msg snap.Message) {
	if !s.port.IsOpen() {
		s.log.Debug("transmit skipped: port closed")
		return
	}
	s.beginMaster()
	frame := codec.Write(snap.Encode(msg))
	s.slot = downlinkSlot{data: frame}
	s.writeRaw(frame)
	s.latestDownlinkEventTime = s.now()
	s.txCounter++
}

// TransmitControlChar writes a single unframed control byte as the
// outstanding downlink (spec §4.3: "same as Transmit but the buffer
// holds a single byte").
func (s *Session) TransmitControlChar(c byte) {
	if !s.port.IsOpen() {
		s.log.Debug("transmit skipped: port closed")
		return
	}
	s.beginMaster()
	s.slot = downlinkSlot{data: []byte{c}}
	s.writeRaw([]byte{c})
	s.latestDownlinkEventTime = s.now()
}

// Retransmit rewrites the outstanding downlink slot to the port,
// bounded by cause's limit. On reaching the limit it finishes the
// session and raises linefault. Once linefault is latched, further
// calls are no-ops until a valid uplink clears it (spec §4.3: "subsequent
// Re-transmit calls in this state are no-ops" — "this state" being the
// fault-latched one, not a particular retransmit_count value, since
// finish() resets the counter).
func (s *Session) Retransmit(cause Cause) {
	if s.faults.has(LineFault) {
		return
	}

	limit := s.resendLimit
	if cause == NACKED {
		limit = s.resendLimitNAK
	}
	s.slot.retransmitCount++
	s.latestDownlinkEventTime = s.now()
	s.metrics.Retransmit(cause.String())

	if len(s.slot.data) > 0 {
		s.writeRaw(s.slot.data)
	}

	count := s.slot.retransmitCount
	if count < limit {
		return
	}

	s.finish()
	if !s.faults.has(LineFault) {
		s.faults.add(LineFault)
		s.log.WithField("cause", cause).Warn("linefault raised: retransmit limit exhausted")
		s.faultSink.FaultDetected(LineFault)
	}
}

func (s *Session) handleControlByte(b byte) {
	switch b {
	case ACK:
		s.finish()
	case NAK:
		s.Retransmit(NACKED)
	case EOT:
		s.finish()
	case ENQ:
		s.TransmitControlChar(EOT)
		s.finish()
	}
}

// Receive appends chunk to the RxBuffer and drains every complete
// control byte or frame it can find, per spec §4.3.
func (s *Session) Receive(chunk []byte) {
	s.rx.Append(chunk)

	validEvent := false

	for {
		buf := s.rx.Bytes()
		if len(buf) == 0 {
			break
		}

		var consumed int
		if isControlByte(buf[0]) {
			s.handleControlByte(buf[0])
			consumed = 1
			validEvent = true
		} else {
			var nack bool
			var frame []byte
			consumed, nack, frame = codec.Parse(buf)
			if nack {
				s.metrics.FrameNAKed()
				s.TransmitControlChar(NAK)
			}
			if frame != nil {
				s.metrics.FrameParsed()
				s.beginClient()
				msg := snap.Decode(frame)
				if !msg.Empty {
					s.dispatcher.Dispatch(msg)
					validEvent = true
				}
				s.TransmitControlChar(ACK)
			}
		}

		if consumed == 0 {
			if s.rx.Overrun() {
				s.rx.Clear()
				s.metrics.FrameNAKed()
				s.TransmitControlChar(NAK)
				s.finish()
			}
			break
		}

		s.rx.Consume(consumed)
		if s.rx.Len() == 0 {
			break
		}
	}

	if s.rx.Len() == 0 {
		s.finish()
	}

	if !validEvent {
		return
	}

	s.latestUplinkEventTime = s.now()

	wasFault := s.faults.has(LineFault)
	if wasFault {
		s.faults.remove(LineFault)
	}
	if wasFault || !s.initialLivenessSent {
		s.initialLivenessSent = true
		s.faultSink.FaultCleared(LineFault)
	}
}

// Diagnostics is the periodic (spec: every 5s) timer callback. It
// returns true to request rescheduling, false once the port has
// closed and the timer should deregister itself.
func (s *Session) Diagnostics(now time.Time) bool {
	if !s.port.IsOpen() {
		return false
	}

	if s.Active() {
		if now.Sub(s.latestDownlinkEventTime) >= s.downlinkSilenceTimeout {
			s.Retransmit(NoReply)
		}
		return true
	}

	s.state = Idle
	if now.Sub(s.latestUplinkEventTime) >= s.uplinkSilenceTimeout {
		s.TransmitControlChar(ENQ)
	}
	return true
}
