// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"reflect"
	"sort"
)

// Diff returns the dotted YAML paths whose values differ between a and b.
func Diff(a, b AppConfig) []string {
	var out []string
	diffValue("", reflect.ValueOf(a), reflect.ValueOf(b), &out)
	sort.Strings(out)
	return out
}

func diffValue(prefix string, a, b reflect.Value, out *[]string) {
	if a.Kind() != reflect.Struct {
		if !reflect.DeepEqual(a.Interface(), b.Interface()) {
			*out = append(*out, prefix)
		}
		return
	}
	t := a.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("yaml")
		if tag == "-" || !f.IsExported() {
			continue
		}
		name := tag
		if prefix != "" {
			name = fmt.Sprintf("%s.%s", prefix, tag)
		}
		diffValue(name, a.Field(i), b.Field(i), out)
	}
}
