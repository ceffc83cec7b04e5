package classify

import "github.com/kelthane-iot/alplink/internal/snap"

// loopRange maps an inclusive loop_id range to a content tag.
type loopRange struct {
	lo, hi uint16
	tag    string
}

func (r loopRange) contains(loop uint16) bool {
	return loop >= r.lo && loop <= r.hi
}

// hhlType1 and hhlType9 implement the mirrored alarm/restore tables from
// spec.md §6. type9 only mirrors the subset the spec lists explicitly;
// panic-button and cover-open have no restore counterpart.
var hhlType1 = []loopRange{
	{0, 0, "panel line alarm"},
	{1, 512, "loop open (alarm)"},
	{521, 552, "panic button"},
	{561, 592, "control unit cover open"},
	{600, 600, "panel partial-monitoring"},
	{601, 632, "group disarmed"},
	{680, 680, "panel acknowledgement"},
	{681, 681, "battery alarm"},
	{682, 682, "panel cover open"},
	{683, 683, "wrong code entered"},
	{691, 691, "reduced-function on"},
	{701, 956, "user in"},
	{961, 992, "group bypass on"},
}

var hhlType9 = []loopRange{
	{0, 0, "line alarm restore"},
	{1, 512, "loop closed (restore)"},
	{600, 600, "panel full-monitoring"},
	{601, 632, "group armed"},
	{691, 691, "reduced-function off"},
	{701, 956, "user out"},
	{961, 992, "group bypass off"},
}

const hhlHeartbeatLoop = 2000

var hhlDiscardedServiceClasses = map[uint8]bool{91: true, 92: true, 94: true}

func lookupLoopRange(table []loopRange, loop uint16) string {
	for _, r := range table {
		if r.contains(loop) {
			return r.tag
		}
	}
	return NonSpecified
}

type hhlClassifier struct{}

func (hhlClassifier) Classify(m snap.Message) (snap.Message, string, bool) {
	if hhlDiscardedServiceClasses[m.ServiceClass] {
		return m, "", false
	}
	if m.ServiceClass != 1 {
		return m, NonSpecified, true
	}

	switch m.MessageType {
	case 1:
		return m, lookupLoopRange(hhlType1, m.LoopID), true
	case 2:
		if m.LoopID >= 1 && m.LoopID <= 512 {
			return m, "loop cover alarm", true
		}
		return m, NonSpecified, true
	case 7:
		if m.LoopID >= 1 && m.LoopID <= 512 {
			return m, "loop bypass on", true
		}
		return m, NonSpecified, true
	case 8:
		if m.LoopID >= 1 && m.LoopID <= 512 {
			return m, "loop bypass off", true
		}
		return m, NonSpecified, true
	case 9:
		if m.LoopID == hhlHeartbeatLoop {
			return m, "heartbeat", false
		}
		return m, lookupLoopRange(hhlType9, m.LoopID), true
	default:
		return m, NonSpecified, true
	}
}
