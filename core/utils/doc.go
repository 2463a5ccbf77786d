// Package utils holds small string helpers shared by the catalogue features:
// name folding for search and card-number ordering.
package utils
