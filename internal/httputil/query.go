package httputil

import (
	"net/url"
	"reflect"
)

// GetURLFields returns the names of the filter's fields that are set in
// the query string. This distinguishes a parameter that is absent from
// one that is explicitly set to its zero value.
func GetURLFields(url *url.URL, filter any) []string {
	var setFields []string

	val := reflect.Indirect(reflect.ValueOf(filter))
	for i := 0; i < val.NumField(); i++ {
		field := val.Type().Field(i).Name
		param := val.Type().Field(i).Tag.Get("form")

		if url.Query().Has(param) {
			setFields = append(setFields, field)
		}
	}

	return setFields
}
