// Package kernel provides the shared domain primitives of the field-service engine.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - Zone: the fixed set of coverage zones linking technicians to coordinators
//   - Actor and Role: the explicit caller passed into every transition
//
// These values are immutable and safe for concurrent use.
package kernel
