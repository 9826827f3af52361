package naming

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// All digests use blake2b-256: commitment hashing, name hashing, and subnode
// hash composition share one function so callers can precompute hashes
// off-line.

// HashName digests a canonical name.
func HashName(name []byte) NameHash {
	return blake2b.Sum256(name)
}

// HashCommitment digests a plaintext name concatenated with the caller-chosen
// secret (8 bytes, big-endian). The name stays hidden until reveal.
func HashCommitment(name []byte, secret uint64) CommitmentHash {
	buf := make([]byte, 0, len(name)+8)
	buf = append(buf, name...)
	buf = binary.BigEndian.AppendUint64(buf, secret)
	return blake2b.Sum256(buf)
}

// SubnodeHash composes the hash identifying a child name under a parent.
func SubnodeHash(parent NameHash, label NameHash) NameHash {
	buf := make([]byte, 0, 2*HashSize)
	buf = append(buf, parent[:]...)
	buf = append(buf, label[:]...)
	return blake2b.Sum256(buf)
}
