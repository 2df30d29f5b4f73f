// Package domain defines the core types shared by the icon resolver, the grid
// composer and the HTTP adapter.
//
// This package has no dependencies outside the Go standard library. Catalog
// storage, transport and telemetry live in other packages and depend on the
// types declared here:
//
//	catalog, server, icons, grid → domain (CORRECT)
//	domain → catalog, server      (FORBIDDEN)
//
// Everything in this package is immutable once constructed and safe to share
// across request goroutines.
package domain
