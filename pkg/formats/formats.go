// Package formats provides parsers for Quake file formats.
//
// All formats are little-endian. Parsers consume raw byte buffers,
// typically read from a PAK archive, and fail fast on any structural
// inconsistency.
package formats
