package ddcci

// DDC/CI checksum: XOR of every envelope byte, seeded with the
// destination address for requests and 0x50 for replies.

// Checksum folds data into seed with XOR
func Checksum(seed uint8, data ...[]byte) uint8 {
	sum := seed
	for _, chunk := range data {
		for _, b := range chunk {
			sum ^= b
		}
	}
	return sum
}

// VerifyChecksum verifies that the last byte of frame is the checksum
// of the preceding bytes
func VerifyChecksum(seed uint8, frame []byte) bool {
	if len(frame) < 1 {
		return false
	}
	last := len(frame) - 1
	return Checksum(seed, frame[:last]) == frame[last]
}
