// Package query is the read cache in front of the service functions. Reads
// are addressed by a Key, kept fresh for a per-query stale time, de-duplicated
// while in flight and dropped by namespace when a mutation succeeds.
package query

import (
	"encoding/json"
	"fmt"
)

// Key addresses one cached read. Two keys are equal when their namespace and
// the JSON form of their params are equal; map keys are sorted by the encoder
// so parameter order never matters.
type Key struct {
	Namespace string
	Params    any
}

func NewKey(namespace string, params ...any) Key {
	switch len(params) {
	case 0:
		return Key{Namespace: namespace}
	case 1:
		return Key{Namespace: namespace, Params: params[0]}
	default:
		return Key{Namespace: namespace, Params: params}
	}
}

func (k Key) String() string {
	if k.Params == nil {
		return k.Namespace
	}
	raw, err := json.Marshal(k.Params)
	if err != nil {
		// unencodable params still get a stable, distinct key
		return fmt.Sprintf("%s|%#v", k.Namespace, k.Params)
	}
	return k.Namespace + "|" + string(raw)
}
