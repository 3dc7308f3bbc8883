// Package capture turns host values into ir.Value.
//
// Every resolved field has a value source and a capture strategy. The source
// is either the caller's binding of the same name (a bare field) or an inline
// expression evaluated against the caller's scope. The strategy is chosen
// from the field's attributes:
//
//	plain      default; strings, integers, bools, nil, slices, string-keyed maps,
//	           fmt.Stringer and error values
//	debug      any value, rendered with %+v
//	serialize  any value CBOR can encode, decoded back into a structural value
//
// Attributes that name no strategy are carried on the record untouched.
package capture
