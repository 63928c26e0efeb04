// Package services is the catalogue core: importing and reading families,
// the three search flavours, and resolving settings from a ConfigStore.
package services
