// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package content

import (
	"sort"
	"strings"

	"corehttp.dev/corehttp/httperr"
)

// topLevelTypes are the recognized top-level media types.
var topLevelTypes = map[string]bool{
	"application": true,
	"text":        true,
	"image":       true,
	"audio":       true,
	"video":       true,
	"model":       true,
	"font":        true,
	"multipart":   true,
	"message":     true,
}

// recognizedTrees are the registered facet trees that may prefix a subtype.
var recognizedTrees = map[string]bool{
	"vnd": true,
	"prs": true,
	"x":   true,
}

// MediaType is a parsed `type/[tree.]subType[+suffix][;params]` value, per
// RFC 2046's grammar as scoped by the core data model.
type MediaType struct {
	Type       string
	Tree       string // optional, e.g. "vnd"
	SubType    string
	Suffix     string // optional, e.g. "json" in "application/hal+json"
	Parameters map[string]string
}

// ParseMediaType parses a Content-Type-style header value.
func ParseMediaType(raw string) (MediaType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return MediaType{}, httperr.New(httperr.Unknown, "empty media type")
	}

	main, paramPart, hasParams := strings.Cut(raw, ";")
	main = strings.TrimSpace(main)

	typ, subFull, ok := strings.Cut(main, "/")
	if !ok {
		return MediaType{}, httperr.New(httperr.Unknown, "media type missing subtype: "+raw)
	}
	typ = strings.ToLower(strings.TrimSpace(typ))
	if !topLevelTypes[typ] {
		return MediaType{}, httperr.New(httperr.Unknown, "unrecognized top-level type: "+typ)
	}

	subFull = strings.TrimSpace(subFull)
	if subFull == "" {
		return MediaType{}, httperr.New(httperr.Unknown, "media type missing subtype: "+raw)
	}

	mt := MediaType{Type: typ, Parameters: map[string]string{}}

	tree, rest, hasTree := strings.Cut(subFull, ".")
	if hasTree && recognizedTrees[strings.ToLower(tree)] {
		mt.Tree = strings.ToLower(tree)
		subFull = rest
	}

	if sub, suffix, hasSuffix := strings.Cut(subFull, "+"); hasSuffix {
		mt.SubType = strings.ToLower(sub)
		mt.Suffix = strings.ToLower(suffix)
	} else {
		mt.SubType = strings.ToLower(subFull)
	}

	if hasParams {
		for _, kv := range strings.Split(paramPart, ";") {
			kv = strings.TrimSpace(kv)
			if kv == "" {
				continue
			}
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				continue
			}
			k = strings.ToLower(strings.TrimSpace(k))
			v = strings.Trim(strings.TrimSpace(v), `"`)
			mt.Parameters[k] = v
		}
	}

	return mt, nil
}

// FormatMediaType renders m back into its wire representation. It is the
// inverse of ParseMediaType: ParseMediaType(FormatMediaType(m)) reproduces
// m field-for-field (modulo parameter ordering, which Format sorts by key
// for determinism).
func FormatMediaType(m MediaType) string {
	var b strings.Builder
	b.WriteString(m.Type)
	b.WriteByte('/')
	if m.Tree != "" {
		b.WriteString(m.Tree)
		b.WriteByte('.')
	}
	b.WriteString(m.SubType)
	if m.Suffix != "" {
		b.WriteByte('+')
		b.WriteString(m.Suffix)
	}

	if len(m.Parameters) > 0 {
		keys := make([]string, 0, len(m.Parameters))
		for k := range m.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			b.WriteByte(';')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(m.Parameters[k])
		}
	}

	return b.String()
}
