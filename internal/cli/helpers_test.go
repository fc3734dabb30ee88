package cli

import (
	"os"
	"regexp"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
