// Package i18n resolves localized UI messages by dotted id ("catalog.search").
// Bundles are embedded YAML files, one per locale; lookups fall back from the
// requested locale to en-US and finally to the id itself.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is the fallback locale.
const DefaultLocale = "en-US"

//go:embed locales/*.yaml
var bundles embed.FS

// Params are substituted into {name} placeholders.
type Params map[string]any

// Messages holds flattened message bundles keyed by locale.
type Messages struct {
	bundles map[string]map[string]string
}

var (
	defaultMessages *Messages
	loadOnce        sync.Once
	loadErr         error
)

// Default returns the embedded bundles, loading them once.
func Default() *Messages {
	loadOnce.Do(func() {
		defaultMessages, loadErr = Load(bundles, "locales")
	})
	if loadErr != nil {
		panic(fmt.Sprintf("i18n: embedded bundles are invalid: %v", loadErr))
	}
	return defaultMessages
}

// Load reads every <locale>.yaml file in dir of fsys.
func Load(fsys fs.FS, dir string) (*Messages, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	m := &Messages{bundles: make(map[string]map[string]string)}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", e.Name(), err)
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		m.bundles[strings.TrimSuffix(e.Name(), ".yaml")] = flat
	}
	return m, nil
}

// flatten turns nested maps into dotted keys.
func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flatten(key, val, out)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Locales returns the loaded locale names.
func (m *Messages) Locales() []string {
	out := make([]string, 0, len(m.bundles))
	for l := range m.bundles {
		out = append(out, l)
	}
	return out
}

// Has reports whether id resolves in locale or the fallback locale.
func (m *Messages) Has(locale, id string) bool {
	_, ok := m.lookup(locale, id)
	return ok
}

// T resolves id for locale and substitutes params.
func (m *Messages) T(locale, id string, params Params) string {
	msg, ok := m.lookup(locale, id)
	if !ok {
		return id
	}
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprint(v))
	}
	return msg
}

func (m *Messages) lookup(locale, id string) (string, bool) {
	for _, l := range []string{locale, language(locale), DefaultLocale} {
		if b, ok := m.bundles[l]; ok {
			if msg, ok := b[id]; ok {
				return msg, true
			}
		}
	}
	return "", false
}

// language maps "it" to "it-IT" style bundle names when only the language is given.
func language(locale string) string {
	switch strings.ToLower(locale) {
	case "it", "it_it":
		return "it-IT"
	case "en", "en_us":
		return "en-US"
	}
	return locale
}

// ErrorMessage resolves a search error code, falling back to the generic
// catalog.error message for unknown or empty codes.
func (m *Messages) ErrorMessage(locale, code string) string {
	if code != "" {
		id := "catalog.errors." + code
		if m.Has(locale, id) {
			return m.T(locale, id, nil)
		}
	}
	return m.T(locale, "catalog.error", nil)
}

// T resolves id with the embedded bundles.
func T(locale, id string, params Params) string {
	return Default().T(locale, id, params)
}
