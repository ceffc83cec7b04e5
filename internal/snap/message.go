// Package snap implements the SNAP application-layer message carried
// inside an ALP frame's data field: the struct itself (spec.md §3) and
// the minimal wire encode/decode the rest of the core needs to route
// and re-frame messages. Decoding and encoding are exact inverses for
// any non-empty message produced by Encode.
package snap

import "encoding/binary"

// headerLen is the fixed portion of the wire encoding, before the
// variable-length data field: flags(1) + counter(1) + service_class(1) +
// message_type(1) + system_id(2) + terminal_id(2) + loop_id(2) +
// event_time(4).
const headerLen = 14

const moreFlag = 1 << 0

// Message is the application-layer record routed by the classifiers and
// forwarded (or rebuilt, for outbound alarms) by the PortAdapter.
type Message struct {
	More           bool
	MessageCounter uint8
	ServiceClass   uint8
	MessageType    uint8
	SystemID       uint16
	TerminalID     uint16
	LoopID         uint16
	EventTime      uint32
	Data           []byte

	// Empty marks a degenerate decode: a payload too short to carry the
	// fixed header. Decode reports this instead of an error (spec §7);
	// Session does not dispatch an Empty message.
	Empty bool
}

// Encode serializes m into bytes suitable for Codec.Write.
func Encode(m Message) []byte {
	out := make([]byte, headerLen+len(m.Data))

	var flags byte
	if m.More {
		flags |= moreFlag
	}
	out[0] = flags
	out[1] = m.MessageCounter
	out[2] = m.ServiceClass
	out[3] = m.MessageType
	binary.BigEndian.PutUint16(out[4:6], m.SystemID)
	binary.BigEndian.PutUint16(out[6:8], m.TerminalID)
	binary.BigEndian.PutUint16(out[8:10], m.LoopID)
	binary.BigEndian.PutUint32(out[10:14], m.EventTime)
	copy(out[headerLen:], m.Data)

	return out
}

// Decode parses a payload produced by Codec.Parse into a Message. A
// payload shorter than the fixed header decodes to the zero Message
// with Empty set, rather than an error: malformed application content
// is not a framing error (spec §7).
func Decode(payload []byte) Message {
	if len(payload) < headerLen {
		return Message{Empty: true}
	}

	data := make([]byte, len(payload)-headerLen)
	copy(data, payload[headerLen:])

	return Message{
		More:           payload[0]&moreFlag != 0,
		MessageCounter: payload[1],
		ServiceClass:   payload[2],
		MessageType:    payload[3],
		SystemID:       binary.BigEndian.Uint16(payload[4:6]),
		TerminalID:     binary.BigEndian.Uint16(payload[6:8]),
		LoopID:         binary.BigEndian.Uint16(payload[8:10]),
		EventTime:      binary.BigEndian.Uint32(payload[10:14]),
		Data:           data,
	}
}
