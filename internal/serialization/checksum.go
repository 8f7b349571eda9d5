package serialization

import "crypto/sha256"

// ComputeChecksum computes the SHA-256 checksum of a payload.
func ComputeChecksum(data []byte) [ChecksumSize]byte {
	return sha256.Sum256(data)
}

// ValidateChecksum recomputes the checksum of data and compares it with
// stored. Returns ErrChecksumMismatch if they differ.
func ValidateChecksum(data []byte, stored [ChecksumSize]byte) error {
	if ComputeChecksum(data) != stored {
		return ErrChecksumMismatch
	}
	return nil
}
