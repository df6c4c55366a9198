package method

type Method uint8

const (
	Unknown Method = iota
	POST
	GET
	PUT
	DELETE
	PATCH
	OPTIONS

	// Count is the last one enum, so contains the greatest integer value of all the
	// methods. So real number of methods is lower by 1
	Count = iota - 1
)

// List contains all the supported HTTP methods in the order they are advertised in
// the Access-Control-Allow-Methods header. Unknown method is not included.
var List = []Method{POST, GET, PUT, DELETE, PATCH, OPTIONS}

// Parse matches the token exactly (case-sensitive) against the closed set of supported
// methods. Unknown is returned if nothing matched.
func Parse(str string) Method {
	switch len(str) {
	case 3:
		if str == "GET" {
			return GET
		} else if str == "PUT" {
			return PUT
		}
	case 4:
		if str == "POST" {
			return POST
		}
	case 5:
		if str == "PATCH" {
			return PATCH
		}
	case 6:
		if str == "DELETE" {
			return DELETE
		}
	case 7:
		if str == "OPTIONS" {
			return OPTIONS
		}
	}

	return Unknown
}

func (m Method) String() string {
	switch m {
	case POST:
		return "POST"
	case GET:
		return "GET"
	case PUT:
		return "PUT"
	case DELETE:
		return "DELETE"
	case PATCH:
		return "PATCH"
	case OPTIONS:
		return "OPTIONS"
	default:
		return "UNKNOWN"
	}
}

// Join renders methods into a comma-separated list, e.g. "POST, GET".
func Join(methods []Method) string {
	var buff []byte

	for i, m := range methods {
		if i > 0 {
			buff = append(buff, ", "...)
		}

		buff = append(buff, m.String()...)
	}

	return string(buff)
}
