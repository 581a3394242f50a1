// Package grid defines the coloured voxel model of a block.
// A Definition is an immutable numPix x numPix grid of colours that every
// side face of the block reads, mirrored on odd faces so colours stay
// continuous around the corners. The top face reads a derived grid whose
// border matches the top row of the sides. Frames place face pixels in
// block space.
package grid
