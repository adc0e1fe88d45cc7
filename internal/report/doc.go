// Package report maps query results onto the response documents returned by
// the HTTP API and the CLI, including the static source metadata block.
package report
