// Package frame holds the in-memory data model shared by the harmonization
// pipeline: raw cells as they arrive from an extract, canonical typed values,
// named columns, and the row-aligned tables built from them.
//
// Tables are immutable snapshots. Every transformation (With, Filter, Select,
// Concat) returns a new Table and leaves its inputs untouched, so a table can
// be handed to several consumers without locking.
package frame
