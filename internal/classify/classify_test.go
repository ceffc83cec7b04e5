package classify

import (
	"testing"

	"github.com/kelthane-iot/alplink/internal/snap"
)

func TestHHLType1Ranges(t *testing.T) {
	c := New(HHL)
	cases := []struct {
		loop uint16
		want string
	}{
		{0, "panel line alarm"},
		{1, "loop open (alarm)"},
		{512, "loop open (alarm)"},
		{521, "panic button"},
		{561, "control unit cover open"},
		{600, "panel partial-monitoring"},
		{601, "group disarmed"},
		{680, "panel acknowledgement"},
		{681, "battery alarm"},
		{682, "panel cover open"},
		{683, "wrong code entered"},
		{691, "reduced-function on"},
		{701, "user in"},
		{961, "group bypass on"},
		{9999, NonSpecified},
	}
	for _, tc := range cases {
		_, content, forward := c.Classify(snap.Message{ServiceClass: 1, MessageType: 1, LoopID: tc.loop})
		if !forward {
			t.Fatalf("loop %d: expected forward=true", tc.loop)
		}
		if content != tc.want {
			t.Errorf("loop %d: content = %q, want %q", tc.loop, content, tc.want)
		}
	}
}

func TestHHLType9Mirror(t *testing.T) {
	c := New(HHL)
	cases := []struct {
		loop uint16
		want string
	}{
		{0, "line alarm restore"},
		{1, "loop closed (restore)"},
		{600, "panel full-monitoring"},
		{601, "group armed"},
		{691, "reduced-function off"},
		{701, "user out"},
		{961, "group bypass off"},
	}
	for _, tc := range cases {
		_, content, forward := c.Classify(snap.Message{ServiceClass: 1, MessageType: 9, LoopID: tc.loop})
		if !forward || content != tc.want {
			t.Errorf("loop %d: got (%q, %v), want (%q, true)", tc.loop, content, forward, tc.want)
		}
	}
}

func TestHHLHeartbeatDiscarded(t *testing.T) {
	c := New(HHL)
	_, _, forward := c.Classify(snap.Message{ServiceClass: 1, MessageType: 9, LoopID: 2000})
	if forward {
		t.Fatalf("heartbeat (type 9, loop 2000) should be discarded")
	}
}

func TestHHLOtherMessageTypes(t *testing.T) {
	c := New(HHL)
	_, content, forward := c.Classify(snap.Message{ServiceClass: 1, MessageType: 2, LoopID: 10})
	if !forward || content != "loop cover alarm" {
		t.Errorf("type 2 loop 10 = (%q, %v)", content, forward)
	}
	_, content, forward = c.Classify(snap.Message{ServiceClass: 1, MessageType: 7, LoopID: 10})
	if !forward || content != "loop bypass on" {
		t.Errorf("type 7 loop 10 = (%q, %v)", content, forward)
	}
	_, content, forward = c.Classify(snap.Message{ServiceClass: 1, MessageType: 8, LoopID: 10})
	if !forward || content != "loop bypass off" {
		t.Errorf("type 8 loop 10 = (%q, %v)", content, forward)
	}
}

func TestHHLDiscardedServiceClasses(t *testing.T) {
	c := New(HHL)
	for _, sc := range []uint8{91, 92, 94} {
		_, _, forward := c.Classify(snap.Message{ServiceClass: sc, MessageType: 1})
		if forward {
			t.Errorf("service_class %d should be discarded", sc)
		}
	}
}

func TestProdexRewrite(t *testing.T) {
	c := New(PRODEX)

	out, content, forward := c.Classify(snap.Message{SystemID: 680, ServiceClass: 10, MessageType: 1, LoopID: 99, Data: []byte("x")})
	if !forward {
		t.Fatalf("expected forward=true")
	}
	if content != "fire alarm (group)" || out.LoopID != 1 || out.MessageType != 1 {
		t.Errorf("got content=%q loop=%d type=%d", content, out.LoopID, out.MessageType)
	}
	if string(out.Data) != "fire alarm (group): x" {
		t.Errorf("data = %q", out.Data)
	}

	out, content, forward = c.Classify(snap.Message{SystemID: 688, ServiceClass: 1, MessageType: 1})
	if !forward || content != "panel line alarm" || out.LoopID != 0 || out.MessageType != 3 {
		t.Errorf("688/1/type1 got content=%q loop=%d type=%d forward=%v", content, out.LoopID, out.MessageType, forward)
	}

	// type 9 never rewrites message_type, even when a rule matches.
	out, _, forward = c.Classify(snap.Message{SystemID: 689, ServiceClass: 1, MessageType: 9, LoopID: 77})
	if !forward || out.MessageType != 9 || out.LoopID != 1 {
		t.Errorf("689/1/type9 got loop=%d type=%d forward=%v", out.LoopID, out.MessageType, forward)
	}
}

func TestProdexDiscardsUnmatchedAndOtherTypes(t *testing.T) {
	c := New(PRODEX)

	_, _, forward := c.Classify(snap.Message{SystemID: 1, ServiceClass: 1, MessageType: 1})
	if forward {
		t.Errorf("unmatched system/service tuple should be discarded")
	}

	_, _, forward = c.Classify(snap.Message{SystemID: 680, ServiceClass: 10, MessageType: 2})
	if forward {
		t.Errorf("message_type outside {1,9} should be discarded")
	}
}
