// Package config loads sink configuration and builds the sinks it names.
//
// A configuration file is YAML or JSONC (JSON with comments and trailing
// commas, chosen by a .json or .jsonc extension). Both formats reject
// unknown fields so typos fail loudly:
//
//	default: console
//	sinks:
//	  - name: console
//	    kind: slog
//	    format: text
//	  - name: audit
//	    kind: sqlite
//	    path: audit.db
//	  - name: export
//	    kind: wire
//	    path: export.bin
//	    codec: msgpack
//	    compress: zstd
//	    async: 1024
//
// Build opens every sink and returns a sink.Router that routes each record
// by its target name to the sink of the same name.
package config
