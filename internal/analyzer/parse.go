package analyzer

import (
	"encoding/json"
	"strings"

	"github.com/templui/campus-collector/internal/model"
)

const fence = "```"

// ExtractFenced returns the body of the first fenced code block that holds a
// JSON object. The block may be tagged json or untagged.
func ExtractFenced(s string) (string, bool) {
	rest := s
	for {
		start := strings.Index(rest, fence)
		if start < 0 {
			return "", false
		}
		rest = rest[start+len(fence):]

		end := strings.Index(rest, fence)
		if end < 0 {
			return "", false
		}
		block := strings.TrimLeft(rest[:end], " \t")
		rest = rest[end+len(fence):]

		if len(block) >= 4 && strings.EqualFold(block[:4], "json") {
			block = block[4:]
		}
		block = strings.TrimSpace(block)
		if strings.HasPrefix(block, "{") {
			return block, true
		}
	}
}

// ExtractBraced returns the first balanced {...} span in s. Braces inside
// JSON strings are not counted.
func ExtractBraced(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseAnalysis reads the analysis object out of a model reply: the first
// balanced brace span of a fenced block if there is one, otherwise of the whole
// reply, then a strict JSON decode.
// Field values are not checked against the vocabularies.
func ParseAnalysis(reply string) (*model.Analysis, error) {
	text := reply
	if block, ok := ExtractFenced(reply); ok {
		text = block
	}
	candidate, ok := ExtractBraced(text)
	if !ok {
		return nil, &Error{Kind: KindMalformed, Err: ErrNoJSON}
	}

	var analysis model.Analysis
	err := json.Unmarshal([]byte(candidate), &analysis)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Err: err}
	}
	return &analysis, nil
}
