// Package connectors provides implementations of the DocumentSource
// interface. Each connector knows how to list and read knowledge-base
// documents from one kind of storage.
//
// Only the local filesystem is supported; crawling remote sources into
// the knowledge-base tree is left to external tools.
package connectors
