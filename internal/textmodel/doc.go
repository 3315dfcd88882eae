// Package textmodel implements the position-tracking edit buffer the
// transform passes write into.
//
// Every edit is attributed to a logical writer; writer 0 owns the pristine
// input. A pass obtains a fresh Writer, which captures a Version snapshot
// at creation: all offsets the pass passes to the Writer are interpreted in
// that snapshot's coordinates and resolved against the live buffer through
// the edit log, so earlier edits of the same pass never shift offsets
// computed for later ones.
//
// The buffer keeps per-character attribution (pieces), which makes
// MapToOriginal a lookup: a character written by writer 0 knows its
// original offset, anything else maps to the position right after the
// nearest preceding original character.
package textmodel
