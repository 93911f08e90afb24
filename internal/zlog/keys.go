package zlog

import "fmt"

// Reserved top-level keys in the object's key/value map.
const (
	keyEpoch      = "epoch"
	keyProjection = "projection"
	keyMaxPos     = "max_position"
	posPrefix     = "pos."
	posDigits     = 20 // covers the full 64-bit range: len("18446744073709551615") == 20
)

// positionKey encodes a position as "pos." followed by a 20-digit
// zero-padded decimal, so the host's native byte-lexicographic key order
// matches numeric position order. This exact format (prefix and width) is a
// compatibility constraint on existing on-disk data, not a size
// optimization. A fixed-width big-endian binary key would be smaller but is
// not what readers of older data expect.
func positionKey(position uint64) string {
	return fmt.Sprintf("%s%0*d", posPrefix, posDigits, position)
}
