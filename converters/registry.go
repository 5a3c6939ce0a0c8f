package converters

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"pgconvert/converters/common"
)

var (
	convertersMu sync.RWMutex
	registry     = make(map[string]common.Converter)
)

// Register makes a converter available under the provided format name.
// If Register is called twice with the same name or if converter is nil, it panics.
func Register(name string, converter common.Converter) {
	convertersMu.Lock()
	defer convertersMu.Unlock()
	if converter == nil {
		panic("converters: Register converter is nil")
	}
	name = strings.ToLower(name)
	if _, dup := registry[name]; dup {
		panic("converters: Register called twice for format " + name)
	}
	registry[name] = converter
}

// Lookup selects the converter for a format name, matching
// case-insensitively. Unknown names fail with ErrUnknownFormat.
func Lookup(name string) (common.Converter, error) {
	convertersMu.RLock()
	converter, ok := registry[strings.ToLower(name)]
	convertersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (known formats: %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
	return converter, nil
}

// Formats returns a sorted list of the registered format names.
func Formats() []string {
	convertersMu.RLock()
	defer convertersMu.RUnlock()
	list := make([]string, 0, len(registry))
	for name := range registry {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}
