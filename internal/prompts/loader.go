// Package prompts serves the copywriting prompts embedded from JSON files.
//
// Each file maps a prompt key to a template whose placeholders are written
// {{.Name}}. Fill substitutes them in a single pass, so text supplied by a
// caller is never scanned for placeholders itself.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var files embed.FS

// Vars holds placeholder values keyed by name without the {{. }} wrapper.
type Vars map[string]string

var (
	mu     sync.Mutex
	parsed = map[string]map[string]string{}
)

// Lookup returns the prompt stored under key in file, e.g. "copywriting.json".
func Lookup(file, key string) (string, error) {
	set, err := load(file)
	if err != nil {
		return "", err
	}
	text, ok := set[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, file)
	}
	return text, nil
}

// MustLookup is Lookup for prompts that ship with the binary.
func MustLookup(file, key string) string {
	text, err := Lookup(file, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return text
}

// Fill replaces every {{.Name}} in text with vars[Name]. Placeholders without
// a value are left as they are.
func Fill(text string, vars Vars) string {
	if len(vars) == 0 {
		return text
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, "{{."+name+"}}", vars[name])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Render looks up a prompt and fills it.
func Render(file, key string, vars Vars) (string, error) {
	text, err := Lookup(file, key)
	if err != nil {
		return "", err
	}
	return Fill(text, vars), nil
}

func load(file string) (map[string]string, error) {
	mu.Lock()
	defer mu.Unlock()

	if set, ok := parsed[file]; ok {
		return set, nil
	}

	raw, err := files.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", file, err)
	}
	var set map[string]string
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", file, err)
	}
	parsed[file] = set
	return set, nil
}
