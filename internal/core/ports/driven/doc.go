// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). The core services depend only on these
// interfaces; adapters under internal/adapters/driven implement them.
package driven
