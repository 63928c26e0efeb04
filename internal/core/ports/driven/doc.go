// Package driven holds the interfaces the core services call out through.
// Adapters under internal/adapters/driven implement them; this package
// imports nothing but domain.
package driven
