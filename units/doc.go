// Package units is the unit model library: reusable process steps (feed,
// pump, reverse-osmosis membrane, energy recovery device, product sink)
// declared against a shared property package.
//
// Every unit is a model block owning its state blocks and constraints, and
// exposes boundary states through flowsheet ports. Units follow the same
// lifecycle: constructed during flowsheet assembly, specified by fixing
// variables, initialized with the inlet state held (a local solve at a good
// starting point), then solved simultaneously as part of the flowsheet.
//
// Zero-order models, which use empirical recovery/removal fractions instead
// of transport equations, live in units/zero.
package units
