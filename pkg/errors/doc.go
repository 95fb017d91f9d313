// Package errors provides structured error types for better observability
// and programmatic error handling across the exporter.
//
// The codes map onto the collection failure taxonomy: IO_ERROR for missing or
// unreadable pseudo-files, PARSE_ERROR for content that does not match the
// expected layout and SCHEMA_MISMATCH for unrecognized column counts.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeIO,
//	    "failed to read disk stats",
//	    err,
//	    map[string]interface{}{
//	        "path": "/sys/class/block/sda/stat",
//	        "device": "sda",
//	    },
//	)
package errors
