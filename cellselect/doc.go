// Package cellselect chooses which color class an IR controller
// individualizes next. Four policies are supported — FIRST non-trivial
// cell, LARGEST, SMALLEST, and TRACES (largest, with a small candidate
// cache) — and a Tournament helper picks the best-performing policy for a
// search iteration by comparing short statistics from a caller-supplied
// probe of each candidate (kept decoupled from ircontrol to avoid an
// import cycle: the orchestrator wires the probe closure).
package cellselect
