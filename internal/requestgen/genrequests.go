package requestgen

import (
	"strconv"
	"strings"

	"github.com/indigo-web/sparrow/http/method"
	"github.com/indigo-web/sparrow/kv"
)

// Headers returns n headers, the last one being Host.
func Headers(n int) *kv.Storage {
	hdrs := kv.NewPrealloc(n)

	for i := 0; i < n-1; i++ {
		hdrs.Add("some-random-header-name-nobody-cares-about"+strconv.Itoa(i), strings.Repeat("b", 100))
	}

	return hdrs.Add("host", "localhost")
}

func HeadersBlock(hdrs *kv.Storage) (buff []byte) {
	for key, value := range hdrs.Iter() {
		buff = append(buff, key+": "+value+"\r\n"...)
	}

	return buff
}

// Generate renders a request without body.
func Generate(m method.Method, uri string, hdrs *kv.Storage) (request []byte) {
	request = append(request, m.String()+" "+uri+" HTTP/1.1\r\n"...)
	request = append(request, HeadersBlock(hdrs)...)

	return append(request, '\r', '\n')
}

// GenerateWithBody renders a request with the body, setting the content-length header.
func GenerateWithBody(m method.Method, uri string, hdrs *kv.Storage, body string) []byte {
	hdrs = hdrs.Clone().Set("content-length", strconv.Itoa(len(body)))

	return append(Generate(m, uri, hdrs), body...)
}
