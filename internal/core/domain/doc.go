// Package domain contains the core business entities and rules for docchat.
// It has no dependencies on infrastructure - all types here are pure Go.
package domain
