// Package queryir is the filter language for searching indexed symbol
// tables.
//
// A search is a Select over one table with a tree of predicates. The IR is
// backend-neutral: internal/querysql compiles it to parameterized SQLite,
// and the store only ever runs compiled queries.
//
//	[cli search flags] → [queryir.Select] → Validate → [querysql] → SQL
//
// Query and Predicate are sealed interfaces using the marker method
// pattern, so backends can switch over every variant:
//
//	switch p := pred.(type) {
//	case queryir.Equals:
//	case queryir.AnyEquals:
//	...
//	}
//
// Table and column names are checked against a Schema before compilation
// because backends interpolate them into the query text. Values are never
// interpolated.
package queryir
