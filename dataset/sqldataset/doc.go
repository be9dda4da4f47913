/*
Package sqldataset provides implementations of dataset.Dataset
that use a SQL database as backend.

Samples are stored on a single samples table, with one column per
feature: continuous features take a floating point column and
discrete features a text column. The SQL dialect differences are
hidden behind the Adapter interface, with implementations for
PostgreSQL and SQLite in the pgadapter and sqlite3adapter
subpackages.
*/
package sqldataset
