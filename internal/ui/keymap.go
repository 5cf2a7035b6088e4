package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"nodewalk/internal/commands"
	"nodewalk/internal/config"
)

// KeyMap holds the bindings shown by the help line and the pager
type KeyMap struct {
	Commands []key.Binding // in commands.List order
	names    []string

	Prompt key.Binding
	Help   key.Binding
	Save   key.Binding
	Quit   key.Binding
	Clear  key.Binding
}

// NewKeyMap builds bindings from the configured keys
func NewKeyMap(keys map[string][]string) KeyMap {
	k := KeyMap{
		Prompt: binding(keys[config.ActionPrompt], "command"),
		Help:   binding(keys[config.ActionHelp], "help"),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
		Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
	}
	for _, info := range commands.List() {
		k.Commands = append(k.Commands, binding(keys[info.Name], info.Name))
		k.names = append(k.names, info.Name)
	}
	return k
}

func binding(keys []string, desc string) key.Binding {
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), desc))
}

// Lookup maps every bound key to its command or action name
func (k KeyMap) Lookup() map[string]string {
	out := make(map[string]string)
	for i, b := range k.Commands {
		for _, s := range b.Keys() {
			out[s] = k.names[i]
		}
	}
	for _, s := range k.Prompt.Keys() {
		out[s] = config.ActionPrompt
	}
	for _, s := range k.Help.Keys() {
		out[s] = config.ActionHelp
	}
	return out
}

// Binding returns the binding of the named command
func (k KeyMap) Binding(name string) (key.Binding, bool) {
	for i, n := range k.names {
		if n == name {
			return k.Commands[i], true
		}
	}
	return key.Binding{}, false
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, name := range []string{commands.Parent, commands.Child, commands.Prev, commands.Next, commands.Mark} {
		if b, ok := k.Binding(name); ok {
			out = append(out, b)
		}
	}
	return append(out, k.Prompt, k.Help, k.Quit)
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Commands,
		{k.Prompt, k.Help, k.Save, k.Clear, k.Quit},
	}
}
