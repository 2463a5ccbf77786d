// Package middleware groups the HTTP middleware of the API.
//
//   - auth: API key validation (X-API-Key), disabled when no key is configured.
//   - rayid: assigns every request a ray id for log correlation.
package middleware
