// Package feature holds the question metadata CART trees are built over.
//
// A MetaFeature is a named, enumerated context domain (left phone, stress,
// tone, ...). A Feature is a question template: "is the unit's value for
// meta feature M one of V?". A MetaCart owns both registries for one
// (language, engine type) pair and is shared read-only by every tree of a
// voice.
//
// Features are bulk-loaded either from a compact binary table
// (ReadFeatures) or from a human-readable question file (LoadQuestions):
//
//	12 LeftPhone a,e,i
//	13 Stress 1
//
// Question-file values are resolved per meta-feature kind; phone names go
// through an external PhoneSet.
package feature
