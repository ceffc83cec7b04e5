package codec

// rollingSum folds b into a modulo-256 checksum and an XOR parity. Both
// accumulators run over the on-wire (nibble-encoded) bytes, never the
// decoded application bytes — Write and Parse must agree on this or the
// round-trip fails silently (spec §9).
type rollingSum struct {
	chksum byte
	chkpar byte
}

func (r *rollingSum) add(b byte) {
	r.chksum += b
	r.chkpar ^= b
}
