package querycache

import "strings"

// Key identifies one cached query: a resource name plus an optional
// parameter such as a customer id.
type Key struct {
	Resource string
	Param    string
}

// NewKey builds a key. Extra params are joined with "/".
func NewKey(resource string, params ...string) Key {
	return Key{Resource: resource, Param: strings.Join(params, "/")}
}

func (k Key) String() string {
	if k.Param == "" {
		return k.Resource
	}
	return k.Resource + "/" + k.Param
}
