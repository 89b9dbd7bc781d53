// Package core implements the container core of the VibeScript method
// library: the Array and Hash types whose backing storage specialises itself
// to the values it holds.
//
//   - Arrays start with no storage and pick the tightest packed representation
//     (int32, int64, float64) for their first element, widening to int64 on
//     32-bit overflow and to boxed values on the first non-conforming write.
//   - Hashes keep up to Config.SmallMapCapacity pairs in a flat linear-scan
//     buffer and move to an insertion-ordered hash table once that overflows.
//   - ArrayBuilder accumulates values for map/select/literals and chooses the
//     final representation only once every element is known.
//   - Integer arithmetic detects overflow and promotes int64 results to
//     math/big integers; division and modulo use floor semantics.
//
// Method dispatch, equality and truthiness of host values are supplied by a
// Runtime. Kernel is the default Runtime covering the built-in value kinds.
//
// Containers are not synchronised. A single Array or Map must not be mutated
// from several goroutines without external locking.
package core
