// Package ircontrol drives a single point in the individualization–
// refinement search tree: MoveToChild individualizes a vertex and
// refines with trace comparison, extending the Base; MoveToParent undoes
// the most recent step via the Coloring's reversible change trail.
// SaveState/LoadState snapshot and restore a controller's full position
// (coloring, trace, base depth) for the non-reversible mode BFS uses when
// materializing tree levels out of order.
package ircontrol
