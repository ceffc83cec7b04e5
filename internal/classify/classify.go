// Package classify implements the profile-specific SNAP message
// classifiers named in spec.md §4.4: the HHL and PRODEX lookup tables
// that turn (service_class, message_type, loop_id, system_id) into a
// human-readable content tag, decide whether a message is forwarded,
// and, for PRODEX, rewrite routing fields before forwarding.
package classify

import "github.com/kelthane-iot/alplink/internal/snap"

// Profile names the serial_snap_proto tag selected at PortAdapter
// construction.
type Profile string

const (
	HHL     Profile = "hhl"
	PRODEX  Profile = "prodex"
)

// NonSpecified is the content tag for a message whose fields don't match
// any mapped range. This is not an error (spec §7) — the message still
// forwards.
const NonSpecified = "non-specified"

// Classifier inspects a decoded SNAP message and either discards it or
// returns the (possibly rewritten) message and a content tag.
type Classifier interface {
	Classify(m snap.Message) (out snap.Message, content string, forward bool)
}

// New returns the classifier for the given profile tag.
func New(p Profile) Classifier {
	switch p {
	case PRODEX:
		return prodexClassifier{}
	default:
		return hhlClassifier{}
	}
}
