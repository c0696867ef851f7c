// Package dwr extracts menu records from DWR (Direct Web Remoting) replies.
//
// A DWR reply is script text, not JSON: the payload is the array argument of a
// handleCallback call, with unquoted keys, bare nulls and floats such as
// 3.0913318E7. Records are therefore located by marker scanning and fields are
// extracted with a per-key pattern. Both steps assume that no field value
// contains the record separator "},{" or an unescaped comma.
//
// A bare null in a text field means the field is empty: a record with a null
// menu is dropped, a null observation decodes to "", and a null restaurant
// name is reported as ErrNoName.
package dwr

import (
	"regexp"
	"strings"
	"sync"
)

const (
	objectsStart    = "[{"
	objectsEnd      = "}]"
	objectSeparator = "},{"
)

// SliceObjects returns the text between the first "[{" and the last "}]" of
// body. Several records come back joined by "},{".
func SliceObjects(body string) (string, bool) {
	start := strings.Index(body, objectsStart)
	end := strings.LastIndex(body, objectsEnd)
	if start < 0 || end < 0 {
		return "", false
	}
	start += len(objectsStart)
	if start > end {
		return "", false
	}
	return body[start:end], true
}

// SplitObjects separates the output of SliceObjects into single records.
func SplitObjects(objects string) []string {
	return strings.Split(objects, objectSeparator)
}

var fieldPatterns sync.Map // key -> *regexp.Regexp

func fieldPattern(key string) *regexp.Regexp {
	if re, ok := fieldPatterns.Load(key); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`.*,?` + regexp.QuoteMeta(key) + `:(?P<value>.+?)(?:,.*|$)`)
	actual, _ := fieldPatterns.LoadOrStore(key, re)
	return actual.(*regexp.Regexp)
}

// FieldValue returns the raw, still escaped value of key inside one record.
// Field order does not matter. Values are cut at the first following comma.
func FieldValue(object, key string) (string, bool) {
	re := fieldPattern(key)
	m := re.FindStringSubmatch(object)
	if m == nil {
		return "", false
	}
	return m[re.SubexpIndex("value")], true
}
