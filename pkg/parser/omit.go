package parser

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// shouldOmitField reports whether a field is left out of the builder based
// on the configured tag filters. The builder tag itself is never a filter
// target: it carries the field modifier.
func shouldOmitField(tag reflect.StructTag, opts *Options) bool {
	if tag == "" || len(opts.ExcludeByTags) == 0 {
		return false
	}

	tagMap := structTagToMap(tag)
	for _, f := range opts.ExcludeByTags {
		v, ok := tagMap[f.Key]
		if !ok {
			continue
		}
		if containsTagPart(v, f.Value) {
			return true
		}
	}

	return false
}

// structTagToMap converts a reflect.StructTag into a key/value map.
func structTagToMap(tag reflect.StructTag) map[string]string {
	m := map[string]string{}
	if tag == "" {
		return m
	}

	raw := string(tag)
	for raw != "" {
		parts := strings.SplitN(raw, ":\"", 2)
		if len(parts) != 2 {
			break
		}

		key := strings.TrimSpace(parts[0])
		rest := parts[1]
		end := strings.Index(rest, "\"")
		if end < 0 {
			break
		}

		val := rest[:end]
		m[key] = val

		raw = strings.TrimSpace(rest[end+1:])
	}

	return m
}

// containsTagPart splits a tag value on common delimiters and reports whether
// any fragment matches the expected value.
func containsTagPart(tagVal, expected string) bool {
	if tagVal == "" {
		return false
	}

	for _, part := range strings.FieldsFunc(tagVal, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		if part == expected {
			return true
		}
	}

	return false
}

// shouldSkipFile reports whether a source file is excluded from struct
// collection: the generated output itself, or any file matching an
// ExcludeFiles glob relative to root or by base name.
func shouldSkipFile(root, file string, opts *Options) bool {
	base := filepath.Base(file)
	if base == opts.OutFile {
		return true
	}
	if len(opts.ExcludeFiles) == 0 {
		return false
	}

	rel := file
	if r, err := filepath.Rel(root, file); err == nil {
		rel = r
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range opts.ExcludeFiles {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
