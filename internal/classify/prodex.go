package classify

import "github.com/kelthane-iot/alplink/internal/snap"

// prodexRule is one row of the PRODEX rewrite table (spec.md §6). The
// commented-out system_ids 682, 684, 685, 687 from the original source
// are intentionally absent (spec §9(b)) — do not re-enable without
// product confirmation.
type prodexRule struct {
	systemID     uint16
	serviceClass uint8
	content      string
	newLoopID    uint16
	// newMsgType1 is the rewritten message_type, applied only when the
	// received message_type was 1.
	newMsgType1 uint8
}

var prodexRules = []prodexRule{
	{680, 10, "fire alarm (group)", 1, 1},
	{681, 11, "pre-alarm (group)", 3, 8},
	{688, 1, "panel line alarm", 0, 3},
	{689, 1, "fire alarm", 1, 1},
}

func findProdexRule(systemID uint16, serviceClass uint8) (prodexRule, bool) {
	for _, r := range prodexRules {
		if r.systemID == systemID && r.serviceClass == serviceClass {
			return r, true
		}
	}
	return prodexRule{}, false
}

type prodexClassifier struct{}

func (prodexClassifier) Classify(m snap.Message) (snap.Message, string, bool) {
	if m.MessageType != 1 && m.MessageType != 9 {
		return m, "", false
	}

	rule, ok := findProdexRule(m.SystemID, m.ServiceClass)
	if !ok {
		return m, "", false
	}

	out := m
	out.LoopID = rule.newLoopID
	if m.MessageType == 1 {
		out.MessageType = rule.newMsgType1
	}
	out.Data = append([]byte(rule.content+": "), m.Data...)

	return out, rule.content, true
}
