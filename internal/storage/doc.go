// Package storage opens the raw ECDC dataset from a local file, an HTTP URL
// or an Azure Storage blob.
package storage
