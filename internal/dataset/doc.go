// Package dataset loads the ECDC daily case/death table and cleans it into
// a consistent set of records.
//
// Load is strict about structure: a missing header column or a malformed
// numeric cell fails the whole load. Clean is lenient about content: rows
// with negative counts or unparseable dates are dropped and missing counts
// become zero.
package dataset
