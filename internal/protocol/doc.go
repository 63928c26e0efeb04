// Package protocol implements the private query/response protocol spoken
// between the host and the worker over the worker's stdin and stdout.
//
// Every record is one JSON object terminated by a newline. The host sends
// Query records and the worker answers each with exactly one Response
// carrying the same requestId. A Channel frames and serializes records,
// a Client correlates one in-flight request with its response, and the
// payload types give every query type a concrete shape.
//
// The record types in family.go are the boundary between wire values and
// domain values; nothing outside this package converts between them.
package protocol
