// Package cborbody reads CBOR request bodies into typed values and writes
// typed values as CBOR responses.
//
// Request bodies are checked against an accepted media type, decompressed
// when a supported Content-Encoding is set (gzip, deflate, zstd) and capped
// at a configurable size, both from Content-Length and from the bytes
// actually read.
package cborbody
