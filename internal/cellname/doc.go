/*
Package cellname provides the default cell-name validator and a structured
representation of A1-style cell addresses.

A valid name is one or more ASCII letters followed by a row number without a
leading zero, e.g. `A1`, `bc42`. Names are case-sensitive: `a1` and `A1` are
different cells, although they share a column index.
*/
package cellname
