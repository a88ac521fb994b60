// Package backend defines the polymorphic sampling contract used by the
// dataset orchestrator, the core backend variants and the name to factory
// Registry through which new variants are plugged in.
//
// A backend is constructed once from its immutable Config through a Factory
// and then asked for n values at a time:
//
//	factory, _ := backend.Default().Resolve(backend.BoundedNumericalName)
//	b, err := factory(backend.Config{"lower_bound": 18, "upper_bound": 99, "coerce_to_int": true})
//	values, err := b.Sample(rand.NewSource(1), 100)
//
// Custom variants implement Backend and register a Factory. They can reuse
// the bound transform of the core variants by holding a *BoundedNumerical
// rather than re-implementing it.
package backend
