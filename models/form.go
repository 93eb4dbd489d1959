package models

import (
	"io"
	"net/url"
	"strconv"
)

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// Form is the multipart payload of create/update calls that carry files.
type Form struct {
	Values url.Values
	Files  map[string]*Upload
}

func NewForm() Form {
	return Form{Values: url.Values{}, Files: map[string]*Upload{}}
}

func (f Form) Set(key, value string) {
	f.Values.Set(key, value)
}

func (f Form) SetIfNotEmpty(key, value string) {
	if value != "" {
		f.Values.Set(key, value)
	}
}

func (f Form) SetInt(key string, value int) {
	if value != 0 {
		f.Values.Set(key, strconv.Itoa(value))
	}
}

func (f Form) SetBool(key string, value bool) {
	if value {
		f.Values.Set(key, "1")
		return
	}
	f.Values.Set(key, "0")
}

// AddAll appends every value under key[] the way the backend expects arrays.
func (f Form) AddAll(key string, values []string) {
	for _, v := range values {
		f.Values.Add(key+"[]", v)
	}
}

func (f Form) Attach(field string, u *Upload) {
	if u != nil && u.Reader != nil {
		f.Files[field] = u
	}
}
