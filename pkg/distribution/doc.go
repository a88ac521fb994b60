// Package distribution adapts gonum's stat/distuv families to the bounded
// sampling used by mock data backends. Families are addressed by their scipy
// style names (norm, chi2, uniform, ...) so specification documents written
// for the original tooling keep working.
//
// A Bounded distribution maps the characteristic spread of a family onto a
// user supplied [lower, upper] range. Families with finite support map their
// support exactly. Families with an infinite tail map the 0.0001 / 0.9999
// quantiles instead, so rare draws may land outside the nominal bounds unless
// clipping is requested.
package distribution
