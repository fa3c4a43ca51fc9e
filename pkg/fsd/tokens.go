package fsd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldSeparator joins tokens on the wire. Token position is load-bearing:
// optional fields serialize as empty tokens, never omitted.
const FieldSeparator = ":"

// LineEnding terminates every FSD line.
const LineEnding = "\r\n"

// FrequencyOffsetKHz is subtracted from frequencies on encode and added back
// on decode. The offset convention is part of the wire contract and must be
// preserved for interoperability.
const FrequencyOffsetKHz = 100000

// ErrTokenCount is returned by the FromTokens decoders when a line carries
// fewer tokens than the message kind's fixed minimum. This is a recoverable
// decode failure: callers log and drop the line.
var ErrTokenCount = errors.New("insufficient tokens")

func tokenCountError(pdu string, got, want int) error {
	return fmt.Errorf("%s: %w: got %d, want at least %d", pdu, ErrTokenCount, got, want)
}

// SplitTokens splits a raw line (without line ending) into its PDU payload
// tokens. The PDU prefix must already be stripped.
func SplitTokens(payload string) []string {
	return strings.Split(payload, FieldSeparator)
}

// JoinTokens produces the wire payload for a token sequence.
func JoinTokens(tokens []string) string {
	return strings.Join(tokens, FieldSeparator)
}

// toInt converts a wire token to an int. Conversion failures yield 0 rather
// than an error: servers in the wild send malformed optional fields and the
// protocol tolerates them. This laxity is a documented decode policy, not an
// oversight.
func toInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// toUint is the lenient unsigned variant of toInt, used for packed fields.
func toUint(s string) uint32 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}

// toHex converts a hexadecimal token (client IDs). 0 on failure.
func toHex(s string) uint16 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

// toFloat converts a wire token to a float64, 0 on failure.
func toFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// toBool treats "1" as true, everything else as false.
func toBool(s string) bool {
	return strings.TrimSpace(s) == "1"
}

func boolToken(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func intToken(v int) string {
	return strconv.Itoa(v)
}

func uintToken(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

func hexToken(v uint16) string {
	return strconv.FormatUint(uint64(v), 16)
}

// fixedToken formats a float in fixed-point notation with the given number
// of decimal places. Scientific notation never appears on the wire.
func fixedToken(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// epsilonEqual compares floating-point fields for message equality.
func epsilonEqual(a, b, epsilon float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= epsilon
}

// noColons strips the field separator from free-text fields before they are
// embedded in a token (route, remarks).
func noColons(s string) string {
	return strings.ReplaceAll(s, FieldSeparator, "")
}
