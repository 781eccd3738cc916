// Package registry is the catalog of available module types.
//
// Go has no runtime module discovery, so every module package registers
// itself explicitly: it implements the Module interface and contributes an
// Info describing its patch-file type key, its category, how to build its
// parameter struct, and how to construct an instance.
//
// During application startup the registry is populated once and then only
// read. Registering the same type twice is a programmer error and panics.
//
// The catalog also carries the browsing surface the application exposes:
// category listing, recursive category lookup, and case-insensitive search
// over display names.
package registry
