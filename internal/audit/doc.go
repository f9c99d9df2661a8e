// Package audit records one event per claim store operation.
//
// Sinks receive domain.Event values from the service layer. LogSink
// writes each event as a JSON line; tokens are written unmasked because
// the audit trail is the record of who consumed which token.
package audit
