// Package planload reads the production plan export written by the
// scheduling optimizer into a typed RawTable.
//
// The export is a CSV whose encoding is not declared. Loader tries an
// ordered chain of candidate encodings (UTF-8 with optional byte-order mark,
// then GBK) and keeps the first one that decodes and parses; when every
// candidate fails the returned DataFormatError lists each attempt.
//
// After parsing, the product-type column is located by exact header name and
// becomes the row key. The remaining columns are split into a fixed metadata
// prefix and the ordered date suffix:
//
//	序号, [砖型], 砖数, 重量, <reserved...> | 2024-07-08, 2024-07-09, ...
//	\________________ prefix ______________/ \______ DateColumns ______/
//
// Tables narrower than the prefix are rejected.
package planload
