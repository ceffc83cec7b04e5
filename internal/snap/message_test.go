package snap

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := Message{
		More:           true,
		MessageCounter: 7,
		ServiceClass:   1,
		MessageType:    9,
		SystemID:       681,
		TerminalID:     42,
		LoopID:         521,
		EventTime:      1_700_000_000,
		Data:           []byte("panic"),
	}

	got := Decode(Encode(m))
	if got.Empty {
		t.Fatalf("round trip produced Empty=true")
	}
	if got.More != m.More || got.MessageCounter != m.MessageCounter ||
		got.ServiceClass != m.ServiceClass || got.MessageType != m.MessageType ||
		got.SystemID != m.SystemID || got.TerminalID != m.TerminalID ||
		got.LoopID != m.LoopID || got.EventTime != m.EventTime {
		t.Fatalf("round trip field mismatch: got %+v, want %+v", got, m)
	}
	if !bytes.Equal(got.Data, m.Data) {
		t.Fatalf("round trip data mismatch: got %q, want %q", got.Data, m.Data)
	}
}

func TestEncodeDecodeEmptyData(t *testing.T) {
	m := Message{ServiceClass: 1, MessageType: 1}
	got := Decode(Encode(m))
	if got.Empty {
		t.Fatalf("Empty=true for a full-length header with no data")
	}
	if len(got.Data) != 0 {
		t.Fatalf("Data = %v, want empty", got.Data)
	}
}

func TestDecodeShortPayloadIsEmpty(t *testing.T) {
	got := Decode([]byte{1, 2, 3})
	if !got.Empty {
		t.Fatalf("Empty = false for a payload shorter than the header")
	}
}

func TestDecodeNilPayloadIsEmpty(t *testing.T) {
	got := Decode(nil)
	if !got.Empty {
		t.Fatalf("Empty = false for a nil payload")
	}
}
