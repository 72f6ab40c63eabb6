package wire

import "github.com/cwsl/radiod-engine/internal/tlv"

// BroadcastSSRC addresses every live channel at once (polls, discovery).
const BroadcastSSRC uint32 = 0xFFFFFFFF

// Message is a decoded packet: its kind (STATUS or CMD) and the TLV fields
// that followed the kind byte.
type Message struct {
	Kind   Kind
	Fields []tlv.Field
}

// Decode parses a raw datagram: one kind byte followed by a TLV stream. It
// returns ok=false for an empty buffer; a malformed or truncated TLV stream
// still decodes whatever fields parsed before the truncation, per the
// codec's truncation-safe policy.
func Decode(buf []byte) (Message, bool) {
	if len(buf) == 0 {
		return Message{}, false
	}
	return Message{Kind: Kind(buf[0]), Fields: tlv.Decode(buf[1:])}, true
}

// EncodeHeader starts a new packet: the kind byte with nothing else
// written yet. Callers append TLV fields with the tlv package's encoders
// and finish with tlv.EncodeEOL.
func EncodeHeader(kind Kind) []byte {
	return []byte{byte(kind)}
}

// OutputSSRCOf scans fields for an OUTPUT_SSRC field and returns its value.
// Only the first occurrence is honored, matching decode-order precedence
// for a field that is expected to appear at most once.
func OutputSSRCOf(fields []tlv.Field) (uint32, bool) {
	for _, f := range fields {
		if f.Type == OutputSSRC {
			return tlv.DecodeUint32(f.Value), true
		}
	}
	return 0, false
}

// CommandTagOf scans fields for an echoed COMMAND_TAG.
func CommandTagOf(fields []tlv.Field) (uint32, bool) {
	for _, f := range fields {
		if f.Type == CommandTag {
			return tlv.DecodeUint32(f.Value), true
		}
	}
	return 0, false
}

// ForUs is the fast pre-filter: true iff fields carries an OUTPUT_SSRC
// field equal to ssrc. A message with no OUTPUT_SSRC field is never "for"
// any particular ssrc. It does not parse or validate any other field, so a
// caller can run it before the full decode/dispatch path.
func ForUs(fields []tlv.Field, ssrc uint32) bool {
	got, ok := OutputSSRCOf(fields)
	return ok && got == ssrc
}

// AddressedTo reports whether a command addressed to dst should be applied
// by a channel whose own SSRC is mine: either an exact match, or dst is the
// broadcast address.
func AddressedTo(dst, mine uint32) bool {
	return dst == mine || dst == BroadcastSSRC
}
