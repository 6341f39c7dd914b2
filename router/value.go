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

package router

import (
	"regexp"
	"strconv"
	"strings"
)

var numericPattern = regexp.MustCompile(`^[+-]?\d*\.?\d+(?:[Ee][+-]?\d+)?$`)

// ParseValue converts a raw path-parameter string into a number, a bool,
// or the original string, per the value-parsing grammar: numerics matching
// numericPattern become float64, case-insensitive "true"/"false" become
// bool, anything else is returned unchanged.
func ParseValue(raw string) any {
	if numericPattern.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}

	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}

	return raw
}
