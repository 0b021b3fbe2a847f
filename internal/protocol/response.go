package protocol

import (
	"encoding/json"

	"github.com/fireorder/gateway/pkg/types"
)

// Canonical status lines. These are written directly to the connection;
// there is no http.ResponseWriter in this gateway.
const (
	statusLineOK           = "HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n\r\n"
	statusLineBadRequest   = "HTTP/1.1 400 Bad Request\r\n\r\n"
	statusLineUnauthorized = "HTTP/1.1 401 Unauthorized\r\n\r\n"
	statusLineNotFound     = "HTTP/1.1 404 NOT FOUND\r\n\r\n"
	statusLineInternal     = "HTTP/1.1 500 Internal Error\r\n\r\n"
)

// Response is a fully rendered HTTP response ready to write to a conn.
type Response struct {
	statusLine string
	body       []byte
}

// Bytes renders the response as the exact bytes to write to the socket.
func (r Response) Bytes() []byte {
	return append([]byte(r.statusLine), r.body...)
}

// JSONOK wraps data in a success envelope and returns it as a 200.
func JSONOK(data any) Response {
	body, err := json.Marshal(types.OK(data))
	if err != nil {
		return InternalErrorResponse("failed to encode response")
	}
	return Response{statusLine: statusLineOK, body: body}
}

// RawJSON wraps an already-rendered JSON body (e.g. an envelope the
// caller assembled itself) as a 200 response.
func RawJSON(body string) Response {
	return Response{statusLine: statusLineOK, body: []byte(body)}
}

// BadRequestResponse returns a 400 with msg as the body, matching the
// session loop's "respond 400 with the error message as the body" rule
// for malformed requests.
func BadRequestResponse(msg string) Response {
	return Response{statusLine: statusLineBadRequest, body: []byte(msg)}
}

// UnauthorizedResponse returns a 401 with the canonical body.
func UnauthorizedResponse() Response {
	return Response{statusLine: statusLineUnauthorized, body: []byte("401 unauthorized")}
}

// NotFoundResponse returns a 404 for unrecognized routes.
func NotFoundResponse() Response {
	return Response{statusLine: statusLineNotFound, body: []byte("404 Not Found")}
}

// InternalErrorResponse returns a 500, optionally carrying msg as the body.
func InternalErrorResponse(msg string) Response {
	return Response{statusLine: statusLineInternal, body: []byte(msg)}
}
