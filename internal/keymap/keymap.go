// Package keymap binds key sequences to commands.
//
// Bindings form a trie: each Keybind is either a command or a map of further
// keys. Keys use the names bubbletea reports for key presses ("j", "ctrl+t",
// "shift+tab", "pgdown"); "space" is accepted for the space bar.
package keymap

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"colfm/internal/commands"
	"colfm/internal/config"
	"colfm/internal/errors"
	"colfm/internal/log"

	"github.com/charmbracelet/bubbles/key"
	"gopkg.in/yaml.v3"
)

// Keybind is one node of the trie. Exactly one of Command and Map is set.
type Keybind struct {
	Command commands.Command
	Map     map[string]*Keybind
}

// IsCommand reports whether the node ends a sequence.
func (k *Keybind) IsCommand() bool {
	return k != nil && k.Command != nil
}

// Keymap is the root of the trie.
type Keymap struct {
	root map[string]*Keybind
}

// New returns an empty keymap.
func New() *Keymap {
	return &Keymap{root: make(map[string]*Keybind)}
}

// normalize maps config spellings onto the names bubbletea reports.
func normalize(k string) string {
	if k == "space" {
		return " "
	}
	return k
}

func display(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

// Bind maps keys to cmd. A binding replaces whatever was bound on the same
// path, including a shorter sequence that is a prefix of keys or a longer
// one that keys is a prefix of.
func (m *Keymap) Bind(keys []string, cmd commands.Command) error {
	if len(keys) == 0 {
		return errors.New("empty key sequence")
	}
	if cmd == nil {
		return errors.New("nil command")
	}
	level := m.root
	for i, k := range keys {
		k = normalize(k)
		if k == "" {
			return errors.Newf("empty key at position %d", i)
		}
		if i == len(keys)-1 {
			if prev, ok := level[k]; ok && !prev.IsCommand() {
				log.LogWithFields(log.F("keys", strings.Join(keys, " "))).Debug("binding replaces key prefix")
			}
			level[k] = &Keybind{Command: cmd}
			return nil
		}
		next, ok := level[k]
		if !ok || next.IsCommand() {
			if ok {
				log.LogWithFields(log.F("keys", strings.Join(keys, " ")), log.F("command", next.Command.String())).Debug("binding shadows shorter sequence")
			}
			next = &Keybind{Map: make(map[string]*Keybind)}
			level[k] = next
		}
		level = next.Map
	}
	return nil
}

// Lookup walks keys from the root. It returns the node reached, or nil when
// the sequence is not bound.
func (m *Keymap) Lookup(keys []string) *Keybind {
	if len(keys) == 0 {
		return nil
	}
	level := m.root
	var node *Keybind
	for i, k := range keys {
		var ok bool
		node, ok = level[normalize(k)]
		if !ok {
			return nil
		}
		if node.IsCommand() {
			if i != len(keys)-1 {
				return nil
			}
			return node
		}
		level = node.Map
	}
	return node
}

// Binding is one flattened key sequence.
type Binding struct {
	Keys    []string
	Command commands.Command
}

// Bindings lists every sequence in key order.
func (m *Keymap) Bindings() []Binding {
	var out []Binding
	var walk func(prefix []string, level map[string]*Keybind)
	walk = func(prefix []string, level map[string]*Keybind) {
		for k, node := range level {
			keys := append(append([]string(nil), prefix...), display(k))
			if node.IsCommand() {
				out = append(out, Binding{Keys: keys, Command: node.Command})
				continue
			}
			walk(keys, node.Map)
		}
	}
	walk(nil, m.root)
	sort.Slice(out, func(i, j int) bool {
		return strings.Join(out[i].Keys, " ") < strings.Join(out[j].Keys, " ")
	})
	return out
}

// Load builds the default keymap and applies entries on top of it. Every
// command line goes through commands.Parse.
func Load(entries []config.KeymapEntry) (*Keymap, error) {
	m := Default()
	for i, e := range entries {
		cmd, err := commands.Parse(e.Command)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("entry %d (%s)", i, e.Command), "keymap", errors.InvalidConfig, err)
		}
		if err := m.Bind(e.Keys, cmd); err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("entry %d (%s)", i, e.Command), "keymap", errors.InvalidConfig, err)
		}
	}
	log.LogWithFields(log.F("custom", len(entries))).Debug("keymap loaded")
	return m, nil
}

// Entries converts the keymap back into config entries with canonical
// command lines.
func (m *Keymap) Entries() []config.KeymapEntry {
	bindings := m.Bindings()
	out := make([]config.KeymapEntry, len(bindings))
	for i, b := range bindings {
		out[i] = config.KeymapEntry{Keys: b.Keys, Command: b.Command.String()}
	}
	return out
}

// Print writes the keymap as a YAML keymap section that can be pasted into
// the config file.
func (m *Keymap) Print(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	doc := struct {
		Keymap []config.KeymapEntry `yaml:"keymap"`
	}{Keymap: m.Entries()}
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encode keymap")
	}
	return enc.Close()
}

// KeyBindings adapts the keymap for bubbles/help.
func (m *Keymap) KeyBindings() []key.Binding {
	bindings := m.Bindings()
	out := make([]key.Binding, len(bindings))
	for i, b := range bindings {
		seq := strings.Join(b.Keys, " ")
		out[i] = key.NewBinding(key.WithKeys(seq), key.WithHelp(seq, b.Command.String()))
	}
	return out
}
