// Package port implements PortAdapter (spec.md §4.4, §2): the glue
// between the wire-facing collaborators (serial port, timer source,
// alarm sink, classifier) and the pure Codec/RxBuffer/Session core.
// PortAdapter owns the single-threaded dispatch loop described in
// spec §5 and is the only place that knows about all of them at once.
//
// Grounded on the teacher's host/mcu.MCU (the struct that ties a
// serial.Port and a protocol.HostTransport together behind Connect/
// Close) and host/cmd/gopper-host/main.go's synchronous read/dispatch
// style, adapted from a background-goroutine + channel design to the
// single-threaded cooperative model spec.md §5 requires.
package port

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/kelthane-iot/alplink/internal/alarmsink"
	"github.com/kelthane-iot/alplink/internal/classify"
	"github.com/kelthane-iot/alplink/internal/config"
	"github.com/kelthane-iot/alplink/internal/metrics"
	"github.com/kelthane-iot/alplink/internal/serialport"
	"github.com/kelthane-iot/alplink/internal/session"
	"github.com/kelthane-iot/alplink/internal/snap"
	"github.com/kelthane-iot/alplink/internal/timersrc"
)

// Adapter wires one serial port's Session to its classifier, alarm
// sink, and metrics, and drives the read-dispatch-diagnose loop.
type Adapter struct {
	cfg        *config.Config
	port       serialport.Port
	session    *session.Session
	classifier classify.Classifier
	sink       alarmsink.Sink
	metrics    *metrics.PortMetrics
	log        *logrus.Entry

	diag *timersrc.Source

	readBuf []byte
}

// portWriter adapts serialport.Port to session.PortWriter; the two
// interfaces are almost identical but kept distinct so internal/session
// never imports internal/serialport.
type portWriter struct{ p serialport.Port }

func (w portWriter) Write(b []byte) (int, error) { return w.p.Write(b) }
func (w portWriter) IsOpen() bool                { return w.p.IsOpen() }

// New opens the serial port described by cfg and builds the Adapter
// around it. sink receives classified alarms and fault transitions;
// reg is the Prometheus registry to publish this port's metrics under.
func New(cfg *config.Config, sink alarmsink.Sink, reg prometheus.Registerer, log *logrus.Entry) (*Adapter, error) {
	scfg := &serialport.Config{
		Device:       cfg.Device,
		Baud:         cfg.Baud,
		DataBits:     8,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	p, err := serialport.Open(scfg)
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}

	return NewWithPort(cfg, p, sink, reg, log)
}

// NewWithPort builds an Adapter around an already-open port. Tests use
// this to inject a fake serialport.Port without touching hardware.
func NewWithPort(cfg *config.Config, p serialport.Port, sink alarmsink.Sink, reg prometheus.Registerer, log *logrus.Entry) (*Adapter, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("device", cfg.Device)

	a := &Adapter{
		cfg:        cfg,
		port:       p,
		classifier: classify.New(classify.Profile(cfg.Profile)),
		sink:       sink,
		metrics:    metrics.NewPortMetrics(reg, cfg.Device),
		log:        log,
		readBuf:    make([]byte, 512),
	}

	a.session = session.New(portWriter{p}, a, a, log)
	a.session.SetMetrics(a.metrics)
	a.session.SetRetryLimits(cfg.ResendLimit, cfg.ResendLimitNAK)
	a.session.SetSilenceTimeouts(cfg.DownlinkSilenceTimeout, cfg.UplinkSilenceTimeout)

	return a, nil
}

// Dispatch implements session.Dispatcher: classify a decoded SNAP
// message and, if it should forward, build an UplinkAlarm and hand it
// to the sink (spec §4.4).
func (a *Adapter) Dispatch(msg snap.Message) {
	out, content, forward := a.classifier.Classify(msg)
	if !forward {
		return
	}

	alarm := alarmsink.UplinkAlarm{
		More:         boolDigit(out.More),
		MsgCounter:   strconv.Itoa(int(out.MessageCounter)),
		ServiceClass: strconv.Itoa(int(out.ServiceClass)),
		MsgType:      strconv.Itoa(int(out.MessageType)),
		SystemID:     strconv.Itoa(int(out.SystemID)),
		TerminalID:   strconv.Itoa(int(out.TerminalID)),
		LoopID:       strconv.Itoa(int(out.LoopID)),
		EventTime:    strconv.FormatUint(uint64(out.EventTime), 10),
		Data:         decodeLatin1NoCR(out.Data),
	}

	a.log.WithField("content", content).Debug("alarm classified")
	a.sink.Forward(alarm)
	a.metrics.AlarmForwarded()
}

// FaultDetected implements session.FaultSink.
func (a *Adapter) FaultDetected(tag string) {
	a.metrics.FaultDetected()
	a.sink.FaultDetected(tag)
}

// FaultCleared implements session.FaultSink.
func (a *Adapter) FaultCleared(tag string) {
	a.metrics.FaultCleared()
	a.sink.FaultCleared(tag)
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// decodeLatin1NoCR maps each byte to its Latin-1 codepoint (spec
// §4.4: "decoded as ISO-8859-1 / codepoint-per-byte") and drops any
// carriage-return bytes.
func decodeLatin1NoCR(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c == 0x0D {
			continue
		}
		b.WriteRune(rune(c))
	}
	return b.String()
}

// SendGenericAlarm implements send_generic_alarm (spec §4.4): builds a
// DownlinkAlarm SnapMessage and transmits it. alrmSrc, when non-nil,
// supplies the loop id as its third element; contents, when non-empty,
// becomes the message data.
func (a *Adapter) SendGenericAlarm(onOff bool, alrmSrc []uint16, contents string) {
	if a.session.HasFault(session.LineFault) {
		a.log.Warn("sending generic alarm while linefault is active")
	}

	loopID := uint16(0)
	if len(alrmSrc) > 2 {
		loopID = alrmSrc[2]
	}

	msgType := uint8(9)
	if onOff {
		msgType = 1
	}

	msg := snap.Message{
		ServiceClass:   1,
		MessageType:    msgType,
		SystemID:       1,
		TerminalID:     1,
		LoopID:         loopID,
		MessageCounter: 1,
		EventTime:      uint32(time.Now().Unix()),
	}
	if contents != "" {
		msg.Data = []byte(contents)
	}

	a.session.Transmit(msg)
}

// Close stops the diagnostics timer, if Run started one, and closes the
// underlying port. It does not reset the Session.
func (a *Adapter) Close() error {
	if a.diag != nil {
		a.diag.Stop()
	}
	return a.port.Close()
}
