// Package dataset loads the marketplace CSV exports of a directory into
// named in-memory tables and decodes them into typed records.
//
// A file named olist_orders_dataset.csv becomes the table "orders": the
// configured prefix and the first matching suffix are stripped from the
// file name. Files are read concurrently and assembled in lexical order.
//
// Cells are kept as strings until a Decode* function converts them. Empty
// cells decode to missing values, never to zero.
package dataset
