// Package ir provides the intermediate representation shared by every stage
// of the emit pipeline: template parts, field entries, resolved fields, plans,
// captured values and the final record.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal. This keeps IR the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Records are built fresh per emission and never mutated after assembly
//   - Key-values are stored sorted by name; names are unique
//   - NO float values (use Int, or capture with a debug strategy)
//   - Canonical JSON (RFC 8785 key order) is the only serialization used for hashing
package ir
