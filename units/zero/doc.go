// Package zero holds zero-order unit models: single-inlet double-outlet
// (SIDO) splitters driven by empirical recovery and removal fractions
// instead of transport equations, with electricity demand proportional to
// inlet flow. Performance parameters come from a YAML database keyed by
// technology and subtype.
//
// Zero-order models run on the simplified water property basis
// (properties/water), not the seawater package.
package zero
