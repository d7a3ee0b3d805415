// Package resume turns an uploaded PDF resume into a candidate profile and
// compares that profile against the skills a job role asks for.
package resume

import (
	"errors"
	"fmt"
	"strings"
)

// MaxUploadSize is the largest resume accepted, in bytes.
const MaxUploadSize = 5 << 20

// ErrTooLarge is returned for documents over MaxUploadSize.
var ErrTooLarge = errors.New("resume exceeds 5 MiB")

// Profile is what an interview is seeded with.
type Profile struct {
	Skills   []string `json:"skills"`
	Projects []string `json:"projects"`
	Branch   string   `json:"branch"`
}

// ParsingError reports a document that could not be read as a PDF.
type ParsingError struct {
	Reason string
	Err    error
}

func (e *ParsingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse resume: %s: %v", e.Reason, e.Err)
	}
	return "parse resume: " + e.Reason
}

func (e *ParsingError) Unwrap() error { return e.Err }

// cleanList trims entries and drops blanks.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
