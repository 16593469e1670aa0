// Package readings maintains the TTS pronunciation dictionary: proper nouns
// and other words the speech model mispronounces are replaced with their kana
// readings before synthesis.
package readings

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"reel/internal/services"
)

// Entry maps a written surface form to the kana it should be read as.
type Entry struct {
	Surface string `yaml:"surface"`
	Reading string `yaml:"reading"`
}

// Dictionary is an ordered surface-to-reading mapping. Entries apply in file
// order, so earlier entries win when surfaces overlap.
type Dictionary struct {
	entries []Entry
	index   map[string]string
}

// NewDictionary builds a dictionary from entries, keeping the first reading
// when a surface repeats.
func NewDictionary(entries []Entry) Dictionary {
	dict := Dictionary{index: make(map[string]string)}
	for _, e := range entries {
		if e.Surface == "" {
			continue
		}
		if _, dup := dict.index[e.Surface]; dup {
			continue
		}
		dict.entries = append(dict.entries, e)
		dict.index[e.Surface] = e.Reading
	}
	return dict
}

// Len returns the number of entries.
func (d Dictionary) Len() int { return len(d.entries) }

// Entries returns the entries in file order.
func (d Dictionary) Entries() []Entry { return d.entries }

// Has reports whether surface already carries a reading.
func (d Dictionary) Has(surface string) bool {
	_, ok := d.index[surface]
	return ok
}

// Apply replaces every dictionary surface occurring in text with its reading.
func (d Dictionary) Apply(text string) string {
	for _, e := range d.entries {
		text = strings.ReplaceAll(text, e.Surface, e.Reading)
	}
	return text
}

// Load reads a readings file. The YAML is organized by category (人名, 地名,
// and so on) purely for the editor's benefit; the categories are flattened
// away. A missing file yields an empty dictionary, not an error.
func Load(path string) (Dictionary, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Dictionary{}, nil
	}
	if err != nil {
		return Dictionary{}, services.Wrap(services.ErrConfiguration, "readings", "load", "read readings file", err)
	}
	return Parse(raw)
}

// Parse decodes readings YAML, preserving entry order within and across
// categories.
func Parse(raw []byte) (Dictionary, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Dictionary{}, services.Wrap(services.ErrConfiguration, "readings", "parse", "invalid readings YAML", err)
	}
	if len(doc.Content) == 0 {
		return Dictionary{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Dictionary{}, nil
	}

	dict := Dictionary{index: make(map[string]string)}
	// Mapping content alternates key, value.
	for i := 0; i+1 < len(root.Content); i += 2 {
		category := root.Content[i+1]
		if category.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j+1 < len(category.Content); j += 2 {
			surface := category.Content[j].Value
			reading := category.Content[j+1].Value
			if surface == "" {
				continue
			}
			if _, dup := dict.index[surface]; dup {
				continue
			}
			dict.entries = append(dict.entries, Entry{Surface: surface, Reading: reading})
			dict.index[surface] = reading
		}
	}
	return dict, nil
}

// Save writes the dictionary back out as a single カスタム category. Used when
// suggestions are accepted from the command line.
func Save(path string, dict Dictionary) error {
	entries := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range dict.Entries() {
		entries.Content = append(entries.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Surface},
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Reading},
		)
	}
	root := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "カスタム"},
			entries,
		},
	}
	raw, err := yaml.Marshal(root)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "readings", "save", "encode readings file", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return services.Wrap(services.ErrConfiguration, "readings", "save", "write readings file", err)
	}
	return nil
}
