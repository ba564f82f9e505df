package diam

import "golang.org/x/exp/constraints"

// fromBytes decodes a big-endian byte slice into any unsigned integer
// type, so header.go and avp.go can share one decoder across their 3- and
// 4-byte fields without repeating the shift loop.
func fromBytes[T constraints.Unsigned](data []byte) T {
	var result T
	for _, b := range data {
		result = result<<8 | T(b)
	}
	return result
}
