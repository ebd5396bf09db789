// Package requester provides the per-chunk HTTP execution layer for FastGET.
//
// This package is internal to FastGET. It issues the GET requests of one
// chunk concurrently against a shared HTTP client and normalizes every
// possible termination of a request into a single Response shape.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with connection pooling and per-request timeouts
//   - [Worker]: runs all requests of one chunk concurrently and joins them
//   - [Resolve]: maps any request termination to exactly one [Response]
//
// Users of the fastget library should not need to interact with this
// package directly. Configuration is done through the main fastget package.
package requester
