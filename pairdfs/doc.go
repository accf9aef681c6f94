// Package pairdfs implements the paired depth-first search that proves
// symmetry for the tail of a base cheaply: starting from the canonical
// leaf and a second leaf reached by a different root-to-leaf path at the
// same depth, it walks up the base trying to certify that every sibling
// at each level maps to the canonical leaf via an automorphism. A level
// whose every sibling certifies is "dropped" — its class size multiplies
// into the group order and the level is never explored again; the first
// level where certification fails becomes the new DFS floor.
package pairdfs
