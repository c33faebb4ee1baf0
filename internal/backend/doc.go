// Package backend maps a batch of log entries onto a provider-specific HTTP
// request.
//
// Two providers are supported, selected once at startup by New():
//
//   - generic: POST the entry array as a JSON body to an explicit URL, with
//     an optional "Authorization: Bearer <key>" header.
//   - logdna: POST {"lines": [{line, app, level, meta, timestamp}, ...]} to
//     the provider ingestion endpoint (overridable), with an optional
//     "Authorization: Basic base64(key + ":")" header and the hostname as a
//     query parameter.
//
// The delivery pipeline treats any transport error or non-2xx status as a
// wholesale batch failure; backends never retry on their own.
package backend
