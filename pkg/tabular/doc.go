// Package tabular holds generated datasets as ordered, equally sized columns
// and renders them as delimited text or as an aligned preview table.
package tabular
