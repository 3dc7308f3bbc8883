// Package compiler turns a template and its extra field declarations into
// an ir.Plan.
//
// Compilation is the value-free half of the pipeline:
//
//  1. Tokenize the template into parts and hole fields (package template)
//  2. Normalize extra declarations into field entries (package fields)
//  3. Resolve holes against extras into one rendering-ordered field list
//  4. Sort the fields by name and build the rendering → sorted index map
//
// Every stage is a pure function. Failures are *ir.Error values and stop
// compilation at the first one; a Plan is only returned when every invariant
// holds, so a Plan can be cached per call site and shared read-only.
package compiler
