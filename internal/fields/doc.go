// Package fields parses and normalizes field declarations.
//
// A declaration is either a bare name, which binds the caller's value of the
// same name, or a `name: expr` pair. Either form may be preceded by one or
// more attribute groups:
//
//	user
//	count: n + 1
//	#[debug] err
//	#[debug, emit::serde] #[custom] work: job.payload
//
// The same grammar is used for the body of template holes, so a hole and an
// extra field always agree on what a valid name or attribute is.
package fields
