// Package levels is the rule catalog: it compiles level definitions into typed
// rules and serves them from an immutable in-memory map.
//
// A rule is a closed set of checks. Each check kind is a type implementing the
// sealed Check interface; adding a kind means adding a type here and a case in
// Compile, so nothing else can grow an ad-hoc field.
package levels
