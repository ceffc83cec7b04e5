// Package alarmsink models the one-way channel from the core to an
// upstream alarm-dispatch sink (spec.md §1): a cloud-relay or fault-bus
// that this module treats as an external collaborator behind a narrow
// interface.
package alarmsink

import "github.com/sirupsen/logrus"

// UplinkAlarm is the record forwarded to the sink for each classified
// uplink message (spec.md §4.4).
type UplinkAlarm struct {
	More         string
	MsgCounter   string
	ServiceClass string
	MsgType      string
	SystemID     string
	TerminalID   string
	LoopID       string
	EventTime    string
	Data         string
}

// Sink is the upstream collaborator. PortAdapter never knows the
// concrete relay; it only forwards alarms and reports fault transitions.
type Sink interface {
	Forward(alarm UplinkAlarm)
	FaultDetected(tag string)
	FaultCleared(tag string)
}

// LogSink is a development/default Sink that logs everything through
// logrus instead of relaying it anywhere. Grounded on the teacher's
// practice of printing status to stdout/log in the absence of a real
// upstream (host/mcu.go's PrintDictionary, host/cmd's fmt.Printf trail).
type LogSink struct {
	Log *logrus.Entry
}

// NewLogSink returns a LogSink logging through log, or the package
// default logger if log is nil.
func NewLogSink(log *logrus.Entry) *LogSink {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LogSink{Log: log}
}

func (s *LogSink) Forward(alarm UplinkAlarm) {
	s.Log.WithFields(logrus.Fields{
		"serviceClass": alarm.ServiceClass,
		"msgType":      alarm.MsgType,
		"systemId":     alarm.SystemID,
		"terminalId":   alarm.TerminalID,
		"loopId":       alarm.LoopID,
	}).Info("uplink alarm")
}

func (s *LogSink) FaultDetected(tag string) {
	s.Log.WithField("fault", tag).Warn("fault detected")
}

func (s *LogSink) FaultCleared(tag string) {
	s.Log.WithField("fault", tag).Info("fault cleared")
}

// ChannelSink forwards every event onto channels, for wiring into a real
// relay goroutine. Sends are non-blocking: a slow or absent consumer
// drops the oldest queued event rather than stalling the port's single
// dispatch loop (spec §5: "no handler waits on a response inline").
type ChannelSink struct {
	Alarms        chan UplinkAlarm
	FaultEvents   chan FaultEvent
}

// FaultEvent reports a fault transition for tag: Detected true on raise,
// false on clear.
type FaultEvent struct {
	Tag      string
	Detected bool
}

// NewChannelSink returns a ChannelSink with the given channel capacity.
func NewChannelSink(capacity int) *ChannelSink {
	return &ChannelSink{
		Alarms:      make(chan UplinkAlarm, capacity),
		FaultEvents: make(chan FaultEvent, capacity),
	}
}

func (s *ChannelSink) Forward(alarm UplinkAlarm) {
	select {
	case s.Alarms <- alarm:
	default:
		select {
		case <-s.Alarms:
		default:
		}
		select {
		case s.Alarms <- alarm:
		default:
		}
	}
}

func (s *ChannelSink) FaultDetected(tag string) {
	s.sendFault(FaultEvent{Tag: tag, Detected: true})
}

func (s *ChannelSink) FaultCleared(tag string) {
	s.sendFault(FaultEvent{Tag: tag, Detected: false})
}

func (s *ChannelSink) sendFault(ev FaultEvent) {
	select {
	case s.FaultEvents <- ev:
	default:
		select {
		case <-s.FaultEvents:
		default:
		}
		select {
		case s.FaultEvents <- ev:
		default:
		}
	}
}
