// Package spec models the declarative dataset specification: an ordered list
// of columns, each bound to exactly one backend and its configuration.
//
// Documents are usually written in YAML (JSON is accepted too):
//
//	age:
//	  BoundedNumerical:
//	    distribution: norm
//	    lower_bound: 18
//	    upper_bound: 99
//	    coerce_to_int: true
//	employer:
//	  WeightedDiscrete:
//	    frequency_dist:
//	      Government: 1
//	      Private Company: 5
//
// Parse keeps the order of columns and of every nested mapping, so category
// order and output column order follow the document.
package spec
