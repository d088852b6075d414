// Package traitdex holds module-level metadata.
package traitdex

// Version is the traitdex release version.
const Version = "0.1.0"
