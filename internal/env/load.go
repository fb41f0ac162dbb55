// Package env loads KEY=VALUE pairs from a dotenv file into the process
// environment. The viewer reads its LLM API keys this way.
package env

import (
	"bufio"
	"os"
	"strings"
)

// Keys the viewer looks for after Load.
const (
	KeyOpenAI = "OPENAI_API_KEY"
	KeyGroq   = "GROQ_API_KEY"
)

// Load reads the given file (e.g. ".env") and sets an environment variable
// for each KEY=VALUE line. Blank lines and #-comments are skipped; values
// may be single- or double-quoted. A missing file is not an error.
func Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		_ = os.Setenv(key, value)
	}
	return scanner.Err()
}
