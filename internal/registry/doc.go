// Package registry turns tagged YAML literals into match comparators.
//
// A Registry maps a tag to a Strategy. Strategies receive the raw
// *yaml.Node, classified by its Kind (scalar, sequence, mapping), and
// construct a comparator from it. Built-in comparators are registered under
// "!match." followed by the snake_case form of their Go type name, plus a
// few legacy aliases; the root comparators use the reserved unprefixed tags
// !expect and !expect_list:
//
//	!expect
//	id: !match.not_null
//	name: !match.like "ali*"
//	age: !match.between [18, 99]
//	role: !match.one_of [owner, viewer]
//	code: !match.match {regex: "[A-Z]{3}-\\d+", flags: i}
//	items: !match.strict_sequence [1, 2, 3]
//
// A tagged scalar keeps its source text: !match.equals 02139 holds the
// string "02139", and match.Coerce types it against each observed value.
// Untagged scalars nested in tagged sequences and mappings resolve to their
// YAML types. Aliases that refer back to their own anchor are rejected.
//
// Registration is last-write-wins. Populate a registry before handing it
// to readers; lookups are not synchronized with registration.
package registry
