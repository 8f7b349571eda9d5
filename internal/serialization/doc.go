// Package serialization provides the .rvad file format for recorded tapes.
//
// A .rvad file stores the Wengert list of a tape so that a backward
// traversal can be replayed later or elsewhere:
//
//	Format Structure:
//	  [4 bytes: Magic "RVAD"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [8 bytes: Payload Size (uint64 LE)]
//	  [32 bytes: SHA-256 of the payload]
//	  [Payload: CBOR {header, tape}]
//
// Example usage:
//
//	// Save a tape together with the index of its output node
//	err := serialization.SaveFile("expr.rvad", t, serialization.Header{Output: z.Index()})
//
//	// Load it back and replay the traversal
//	t, header, err := serialization.LoadFile("expr.rvad")
//	grad, err := t.BackwardAt(header.Output)
package serialization
