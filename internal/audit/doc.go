// Package audit records security-relevant account activity in the
// audit_logs table and reads it back per account.
//
// Entries are written off the request path by a Writer, which serialises
// inserts through one goroutine and drops entries when its buffer is full.
package audit
