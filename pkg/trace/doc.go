// Package trace turns a coloured grid into cutting outlines.
//
// The core tracer walks round each level of the block and outlines the
// core slab, stepping in wherever a side pixel is not the core colour so
// that a coloured piece can fill the gap. The face tracer outlines every
// same-colour region of a face. Both produce unit pen steps (see Step)
// that Walk turns into kernel segments; Assemble joins those into closed
// curves with kerf compensation and LayFlat brings face curves into the
// cutting plane.
package trace
