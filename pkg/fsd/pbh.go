package fsd

import "math"

// Position updates carry pitch, bank, heading and the on-ground flag packed
// into a single unsigned integer token. Each angle is quantized to 10 bits
// over a 360 degree range; pitch and bank are negated before quantization.
//
// Layout, from the most significant bit:
//
//	bits 22-31  pitch
//	bits 12-21  bank
//	bits  2-11  heading
//	bit   1     on ground
//	bit   0     unused
const (
	pbhFieldBits = 10
	pbhFieldMask = 1<<pbhFieldBits - 1

	pbhPitchShift   = 22
	pbhBankShift    = 12
	pbhHeadingShift = 2
	pbhGroundShift  = 1

	// PBHAngleStep is the quantization granularity of a packed angle in
	// degrees. Round-tripped angles differ from their inputs by at most
	// this amount.
	PBHAngleStep = 360.0 / (1 << pbhFieldBits)
)

func packAngle(degrees float64) uint32 {
	return uint32(int32(math.Floor(degrees/PBHAngleStep))) & pbhFieldMask
}

func unpackAngle(field uint32) float64 {
	// Sign-extend from 10 bits.
	v := int32(field)
	if field&(1<<(pbhFieldBits-1)) != 0 {
		v -= 1 << pbhFieldBits
	}
	return float64(v) * PBHAngleStep
}

// PackPBH packs attitude angles (degrees) and the on-ground flag into the
// wire representation.
func PackPBH(pitch, bank, heading float64, onGround bool) uint32 {
	packed := packAngle(-pitch)<<pbhPitchShift |
		packAngle(-bank)<<pbhBankShift |
		packAngle(heading)<<pbhHeadingShift
	if onGround {
		packed |= 1 << pbhGroundShift
	}
	return packed
}

// UnpackPBH reverses PackPBH. Heading is normalized to [0, 360).
func UnpackPBH(packed uint32) (pitch, bank, heading float64, onGround bool) {
	pitch = -unpackAngle(packed >> pbhPitchShift & pbhFieldMask)
	bank = -unpackAngle(packed >> pbhBankShift & pbhFieldMask)
	heading = unpackAngle(packed >> pbhHeadingShift & pbhFieldMask)
	if heading < 0 {
		heading += 360
	}
	onGround = packed>>pbhGroundShift&1 == 1
	return
}
