// Package validation decodes form submissions and re-validates them on the
// server. The server result is authoritative: a submission is accepted only
// when the server produces zero error messages, whatever the client checked.
package validation
