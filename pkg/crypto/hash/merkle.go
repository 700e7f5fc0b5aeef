package hash

import "github.com/nspcc-dev/neorpc-go/pkg/util"

// CalcMerkleRoot calculates the Merkle root hash value for the given slice of hashes.
// It doesn't modify the given slice.
func CalcMerkleRoot(hashes []util.Uint256) util.Uint256 {
	if len(hashes) == 0 {
		return util.Uint256{}
	}
	level := make([]util.Uint256, len(hashes))
	copy(level, hashes)

	scratch := make([]byte, 64)
	for len(level) > 1 {
		parents := level[:(len(level)+1)/2]
		for i := 0; i < len(parents); i++ {
			copy(scratch, level[i*2][:])
			if i*2+1 == len(level) {
				copy(scratch[32:], level[i*2][:])
			} else {
				copy(scratch[32:], level[i*2+1][:])
			}
			parents[i] = DoubleSha256(scratch)
		}
		level = parents
	}
	return level[0]
}
