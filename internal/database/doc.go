// Package database provides the PostgreSQL connection pool used by the
// event archive. The auction state itself never touches a database;
// only broadcast events are written out, append-only.
package database
