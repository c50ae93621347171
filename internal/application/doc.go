// Package application provides application initialization and dependency wiring.
// It builds the catalog storage, the packing engine, metrics, handlers, routers,
// and the HTTP server, leaving the main package to CLI parsing and shutdown.
package application
