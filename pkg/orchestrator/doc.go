// Package orchestrator turns a specification document into a Dataset: it
// validates the document, resolves every column's backend in a registry and
// generates tables by sampling each column from its own seeded stream.
//
// Typical use:
//
//	doc, _ := spec.Parse(data)
//	ds, err := orchestrator.LoadSpecification(doc, orchestrator.WithSeed(42))
//	if err != nil {
//		return err
//	}
//	table, err := ds.GenerateMockData(100)
//
// Column streams are derived from the dataset seed and the column name, so a
// seeded Dataset returns the same table on every call, whether columns are
// generated sequentially or concurrently.
package orchestrator
