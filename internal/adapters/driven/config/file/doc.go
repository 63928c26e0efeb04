// Package file persists settings as config.toml. Nested tables are read
// and written as dotted keys.
package file
