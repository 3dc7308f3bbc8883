// Package engine turns compiled plans into records and hands them to sinks.
//
// An emission runs in three steps:
//
//  1. Compile: template and declarations become an ir.Plan (package compiler).
//     Plans are cached per emission site.
//  2. Execute: every field is captured from the caller's scope in rendering
//     order, and the captured values are assembled into an ir.Record.
//  3. Dispatch: the record goes to the sink named by the plan's target, or to
//     the sink installed in the process registry.
//
// Every step is fail-fast. A record that could not be built never reaches a
// sink.
//
// Sinks receive records synchronously on the emitting goroutine. AsyncSink
// moves delivery onto a single writer goroutine that drains a FIFO queue, so
// slow sinks see records in emission order without blocking callers.
package engine
