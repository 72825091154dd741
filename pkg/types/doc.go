// Package types defines the modifier-tree entity types, the external entity
// store interface, and standard errors for the garnish engine.
package types
