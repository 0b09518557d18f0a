// Package util provides generic slice and map helpers plus the numeric
// conversions used when reading operation parameters.
package util
