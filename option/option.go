// Package option holds the generic functional option type shared by the
// prober, the pingers and the resolver.
package option

// Option configures a value of type T in place.
type Option[T any] func(*T)
