package io

// GetVarSize returns the number of bytes needed to encode n in the
// variable-length integer form.
func GetVarSize(n int) int {
	switch {
	case n < 0xFD:
		return 1
	case n <= 0xFFFF:
		return 3
	case uint64(n) <= 0xFFFFFFFF:
		return 5
	default:
		return 9
	}
}

// GetVarBytesSize returns the size of b encoded with WriteVarBytes.
func GetVarBytesSize(b []byte) int {
	return GetVarSize(len(b)) + len(b)
}
