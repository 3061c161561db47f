// Package driving provides interfaces for user-facing adapters
// (primary/inbound ports). The CLI, HTTP API and MCP server drive the core
// exclusively through these interfaces.
package driving
