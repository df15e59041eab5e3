// Package protocol implements the 4heat line protocol: request frames,
// response decoding and reading parsing.
package protocol

import "time"

// Device and polling defaults.
const (
	TCPPort              = 80
	SocketBuffer         = 2048
	SocketTimeout        = 10 * time.Second
	SocketTimeoutRetries = 3
	PollInterval         = 60 * time.Second

	// OuterTimeoutSlack is added to SocketTimeout to bound a whole fetch,
	// error-query fallback included.
	OuterTimeoutSlack = 5 * time.Second
)

// ResultError is the first response token when the stove answers a data
// query with its error report marker.
const ResultError = "ERR"

const (
	dataQuery  = `["SEL","0"]`
	errorQuery = `["SEC","3","I30001000000000000","I30002000000000000","I30017000000000000"]`
)

// Fixed widths of the reading token and the set-value command.
const (
	tagLen        = 1
	keyLen        = 5
	minTokenLen   = 4 // tokens of 3 characters or fewer are fragments
	setValueWidth = 12
)
