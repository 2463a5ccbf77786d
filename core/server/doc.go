// Package server holds the HTTP server configuration and the mapping from
// store errors to HTTP responses shared by every feature handler.
package server
