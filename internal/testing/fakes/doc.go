// Package fakes provides in-memory stand-ins for storage dependencies, for
// use in handler and service tests.
package fakes
