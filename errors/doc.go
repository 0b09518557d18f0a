// Package errors provides the structured error type shared by flowkit
// packages. Every construction and run failure of a pipeline is an
// *AppError carrying a machine-readable code and diagnostic details such as
// node position, operation name and expected versus received types.
package errors
