// Package harness runs YAML scenarios through the full emission pipeline.
//
// A scenario names a template, extra field declarations, a scope of host
// bindings and what should come out: either an error kind or the record's
// rendering order, sorted order, index map, values and rendered message.
//
//	name: login
//	description: bare hole satisfied by an extra field
//	template: "user {user} logged in {n: 2} times"
//	fields: ['user: "ada"']
//	expect:
//	  rendering: [user, n]
//	  sorted: [n, user]
//	  index: [1, 0]
//	  values: {user: ada, n: 2}
//
// Run compiles and executes each scenario with a fresh emitter whose
// registry fans out to a memory sink and an in-memory SQLite store, so every
// scenario also checks that failures dispatch nothing and that the stored
// record reads back unchanged. RunWithGolden snapshots the canonical JSON of
// the result with goldie.
package harness
