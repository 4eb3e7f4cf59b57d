// Package tool implements the callable-tool subsystem: a flat name-keyed
// registry with a category index, a tagged parameter schema with an explicit
// validator, and timeout-guarded execution with consistent error codes.
//
// Registering a name that already exists overwrites the previous definition;
// the registry logs a warning when this happens so collisions are visible.
package tool
