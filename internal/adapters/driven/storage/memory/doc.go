// Package memory provides in-memory implementations of driven port interfaces.
//
// Adapters:
//   - FamilyStore: lock-striped family repository
//   - ConfigStore: configuration map, used for defaults and validation
package memory
