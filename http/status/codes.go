package status

/*
INFO: the reason phrases here intentionally differ from net/http. Only a handful of
codes carry a reason, everything else is rendered with an empty one.
*/

type (
	Code   uint16
	Status string
)

// HTTP status codes as registered with IANA.
// See: https://www.iana.org/assignments/http-status-codes/http-status-codes.xhtml
const (
	OK        Code = 200 // RFC 9110, 15.3.1
	Created   Code = 201 // RFC 9110, 15.3.2
	Accepted  Code = 202 // RFC 9110, 15.3.3
	NoContent Code = 204 // RFC 9110, 15.3.5

	MovedPermanently  Code = 301 // RFC 9110, 15.4.2
	Found             Code = 302 // RFC 9110, 15.4.3
	NotModified       Code = 304 // RFC 9110, 15.4.5
	TemporaryRedirect Code = 307 // RFC 9110, 15.4.8

	BadRequest            Code = 400 // RFC 9110, 15.5.1
	Unauthorized          Code = 401 // RFC 9110, 15.5.2
	Forbidden             Code = 403 // RFC 9110, 15.5.4
	NotFound              Code = 404 // RFC 9110, 15.5.5
	MethodNotAllowed      Code = 405 // RFC 9110, 15.5.6
	Conflict              Code = 409 // RFC 9110, 15.5.10
	RequestEntityTooLarge Code = 413 // RFC 9110, 15.5.14
	UnprocessableEntity   Code = 422 // RFC 9110, 15.5.21

	InternalServerError Code = 500 // RFC 9110, 15.6.1
	NotImplemented      Code = 501 // RFC 9110, 15.6.2
	ServiceUnavailable  Code = 503 // RFC 9110, 15.6.4
)

// Text returns a reason phrase for the HTTP status code. It returns the empty
// string if the code has no reason assigned.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case BadRequest:
		return "BAD REQUEST"
	case NotFound:
		return "NOT FOUND"
	case InternalServerError:
		return "INTERNAL"
	default:
		return ""
	}
}
