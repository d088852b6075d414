// Package types defines the Store and Table interfaces, the implementor
// index data model, and standard error types for the traitdex storage system.
// See docs/ARCHITECTURE.md § Main Interface.
package types
