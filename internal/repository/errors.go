// Package repository contains data access logic separated from HTTP
// handlers.  Errors returned from here wrap the driver error so handlers can
// log the cause while answering with a generic message.
package repository

import "errors"

// ErrInsertFailed is returned when the store rejects or cannot acknowledge
// a write.  Handlers should translate this into an HTTP 500 response.
var ErrInsertFailed = errors.New("insert failed")

// ErrUnexpectedID is returned when the store acknowledges a write but hands
// back an identifier that is not an ObjectID.
var ErrUnexpectedID = errors.New("unexpected inserted id")
