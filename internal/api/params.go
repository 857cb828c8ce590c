package api

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// buildParams turns a params struct tagged with `mapstructure:"name,omitempty"`
// into query values. Nil pointers and zero values tagged omitempty are dropped.
func buildParams(params any) (url.Values, error) {
	q := url.Values{}
	if params == nil {
		return q, nil
	}

	var fields map[string]any
	if err := mapstructure.Decode(params, &fields); err != nil {
		return nil, fmt.Errorf("build query params: %w", err)
	}

	for key, raw := range fields {
		value := reflect.ValueOf(raw)
		if !value.IsValid() {
			continue
		}
		if value.Kind() == reflect.Pointer {
			if value.IsNil() {
				continue
			}
			value = value.Elem()
		}

		switch value.Kind() {
		case reflect.Slice:
			items := make([]string, 0, value.Len())
			for i := 0; i < value.Len(); i++ {
				if s := strings.TrimSpace(fmt.Sprintf("%v", value.Index(i).Interface())); s != "" {
					items = append(items, s)
				}
			}
			// Lists go out comma-joined: skills=go,react
			if len(items) > 0 {
				q.Set(key, strings.Join(items, ","))
			}
		case reflect.Float32, reflect.Float64:
			q.Set(key, strconv.FormatFloat(value.Float(), 'f', -1, 64))
		default:
			if s := fmt.Sprintf("%v", value.Interface()); s != "" {
				q.Set(key, s)
			}
		}
	}

	return q, nil
}

// QueryKey returns a stable string for params, suitable as a cache key part.
func QueryKey(params any) string {
	q, err := buildParams(params)
	if err != nil || len(q) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+q.Get(k))
	}
	return strings.Join(parts, "&")
}

// decodeList accepts either a bare JSON array or an object that wraps the
// array under one of keys.
func decodeList[T any](data json.RawMessage, keys ...string) ([]T, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return []T{}, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}

	for _, key := range append(keys, "items", "results", "data") {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}

	return []T{}, nil
}
