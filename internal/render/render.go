package render

import (
	"strconv"

	"github.com/indigo-web/sparrow/http"
	"github.com/indigo-web/sparrow/http/status"
)

const (
	protocol              = "HTTP/1.1 "
	crlf                  = "\r\n"
	headerKVSeparator     = ": "
	contentLengthHeader   = "Content-Length: "
	approxHeadersOverhead = 64
)

// Response appends the serialized response into the buffer and returns it. The status line
// is followed by the response headers in their order, then Content-Length computed from the
// body, the blank line and the body itself.
func Response(buff []byte, resp http.Response) []byte {
	code := resp.Code()
	buff = append(buff, protocol...)
	buff = strconv.AppendUint(buff, uint64(code), 10)
	buff = append(buff, ' ')
	buff = append(buff, status.Text(code)...)
	buff = append(buff, crlf...)

	for key, value := range resp.Headers() {
		buff = append(buff, key...)
		buff = append(buff, headerKVSeparator...)
		buff = append(buff, value...)
		buff = append(buff, crlf...)
	}

	body := resp.BodyBytes()
	buff = append(buff, contentLengthHeader...)
	buff = strconv.AppendInt(buff, int64(len(body)), 10)
	buff = append(buff, crlf...)
	buff = append(buff, crlf...)

	return append(buff, body...)
}

// Bytes renders the response into a freshly allocated buffer.
func Bytes(resp http.Response) []byte {
	return Response(make([]byte, 0, approxHeadersOverhead+len(resp.BodyBytes())), resp)
}
