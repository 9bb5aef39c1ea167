package docext

import (
	"fmt"
	"os"
	"strings"
)

// Text extracts verification input from plain-text files, one line
// per paragraph. Useful for pre-extracted documents and testing.
type Text struct{}

func (Text) Extract(path string) (Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("extract %s: %w", path, err)
	}
	return FromLines(strings.Split(string(data), "\n")), nil
}
