// Package httpapi exposes a dispatcher over HTTP.
//
// Routes, each accepting GET and POST:
//
//	/:format/:version
//	/:format/:version/:module
//	/:format/:version/:module/:method
//
// The version segment may be written "v2" or "2". Successful responses
// carry the encoder's content type; faults are answered with a JSON body
// of the form {"error": code, "message": text, "request_id": id}.
//
// Usage:
//
//	http.ListenAndServe(":8080", httpapi.Handler(d, httpapi.WithStats(c)))
//
// The handler accepts HTTP/2 over cleartext (h2c) as well as HTTP/1.1.
package httpapi
