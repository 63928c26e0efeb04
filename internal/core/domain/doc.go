// Package domain holds famlink's value types: families and their
// parameters, search criteria, command schemas, the access policy that
// guards library writes, and resolved settings. It imports only the
// standard library.
package domain
