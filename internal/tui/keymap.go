package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type command string

const (
	cmdQuit           command = "quit"
	cmdNextExercise   command = "next-exercise"
	cmdPrevExercise   command = "prev-exercise"
	cmdNextDay        command = "next-day"
	cmdPrevDay        command = "prev-day"
	cmdToday          command = "today"
	cmdGotoDay        command = "goto-day"
	cmdNextField      command = "next-field"
	cmdPrevField      command = "prev-field"
	cmdMoveLeft       command = "move-left"
	cmdMoveRight      command = "move-right"
	cmdNextSet        command = "next-set"
	cmdPrevSet        command = "prev-set"
	cmdBumpWeightUp   command = "bump-weight-up"
	cmdBumpWeightDown command = "bump-weight-down"
	cmdDeleteSet      command = "delete-set"
	cmdBackspace      command = "backspace"
	cmdCycleMetric    command = "cycle-metric"
	cmdHelp           command = "help"
)

// commandOrder is also the order of the full help listing.
var commandOrder = []command{
	cmdNextSet, cmdPrevSet, cmdNextField, cmdPrevField, cmdMoveLeft, cmdMoveRight,
	cmdNextExercise, cmdPrevExercise, cmdBumpWeightUp, cmdBumpWeightDown,
	cmdBackspace, cmdDeleteSet, cmdNextDay, cmdPrevDay, cmdToday,
	cmdGotoDay, cmdCycleMetric, cmdHelp, cmdQuit,
}

var commandDesc = map[command]string{
	cmdQuit:           "quit",
	cmdNextExercise:   "next exercise",
	cmdPrevExercise:   "prev exercise",
	cmdNextDay:        "next day",
	cmdPrevDay:        "prev day",
	cmdToday:          "today",
	cmdGotoDay:        "go to day",
	cmdNextField:      "weight/reps",
	cmdPrevField:      "weight/reps",
	cmdMoveLeft:       "prev set",
	cmdMoveRight:      "next set",
	cmdNextSet:        "next field",
	cmdPrevSet:        "prev field",
	cmdBumpWeightUp:   "weight +",
	cmdBumpWeightDown: "weight -",
	cmdDeleteSet:      "delete set",
	cmdBackspace:      "erase",
	cmdCycleMetric:    "graph metric",
	cmdHelp:           "help",
}

func parseCommand(s string) (command, bool) {
	c := command(strings.TrimSpace(s))
	_, ok := commandDesc[c]
	return c, ok
}

var defaultBindings = map[string]command{
	"esc":       cmdQuit,
	"q":         cmdQuit,
	"ctrl+c":    cmdQuit,
	"n":         cmdNextExercise,
	"e":         cmdPrevExercise,
	"down":      cmdNextField,
	"up":        cmdPrevField,
	"left":      cmdMoveLeft,
	"right":     cmdMoveRight,
	"tab":       cmdNextSet,
	"shift+tab": cmdPrevSet,
	"w":         cmdBumpWeightUp,
	"f":         cmdBumpWeightDown,
	"backspace": cmdBackspace,
	"x":         cmdDeleteSet,
	"]":         cmdNextDay,
	"[":         cmdPrevDay,
	"t":         cmdToday,
	"g":         cmdGotoDay,
	"m":         cmdCycleMetric,
	"?":         cmdHelp,
}

// keyMap maps bubbletea key strings to commands. Digits and '.' never go
// through it.
type keyMap struct {
	byKey    map[string]command
	bindings map[command]key.Binding
	custom   int
}

func defaultKeyMap() keyMap {
	km := keyMap{byKey: map[string]command{}}
	for k, c := range defaultBindings {
		km.byKey[k] = c
	}
	km.rebuild()
	return km
}

// loadKeyMap layers binds.conf over the defaults. A missing file is not an
// error.
func loadKeyMap(path string) (keyMap, error) {
	km := defaultKeyMap()
	if strings.TrimSpace(path) == "" {
		return km, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return km, nil
		}
		return km, err
	}
	defer f.Close()
	if err := km.parse(f); err != nil {
		return km, fmt.Errorf("%s: %w", path, err)
	}
	return km, nil
}

// parse reads `key = command` lines. Unknown keys or commands are skipped.
func (km *keyMap) parse(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "$") || strings.HasPrefix(line, "[") {
			continue
		}
		lhs, rhs, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		rhs = strings.TrimSpace(rhs)
		rhs = strings.TrimSuffix(rhs, "<Enter>")
		rhs = strings.Trim(rhs, ":")
		k, okKey := parseKeySpec(lhs)
		c, okCmd := parseCommand(rhs)
		if !okKey || !okCmd {
			continue
		}
		km.byKey[k] = c
		km.custom++
	}
	km.rebuild()
	return sc.Err()
}

// parseKeySpec turns "a", "<C-x>", "<A-x>", "<S-tab>" or "<space>" into the
// string bubbletea reports for that key.
func parseKeySpec(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if !strings.HasPrefix(s, "<") || !strings.HasSuffix(s, ">") || len(s) < 3 {
		if utf8.RuneCountInString(s) != 1 {
			return "", false
		}
		return s, true
	}

	parts := strings.Split(s[1:len(s)-1], "-")
	name := parts[len(parts)-1]
	if name == "" && len(parts) > 1 {
		// <C--> binds ctrl and '-'.
		name = "-"
		parts = parts[:len(parts)-1]
	}
	var ctrl, alt, shift bool
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToUpper(mod) {
		case "C":
			ctrl = true
		case "A", "M":
			alt = true
		case "S":
			shift = true
		default:
			return "", false
		}
	}

	var base string
	switch strings.ToLower(name) {
	case "esc", "escape":
		base = "esc"
	case "tab":
		base = "tab"
	case "backtab":
		base, shift = "tab", true
	case "enter", "return", "cr":
		base = "enter"
	case "backspace", "bs":
		base = "backspace"
	case "del", "delete":
		base = "delete"
	case "up", "down", "left", "right", "home", "end", "pgup", "pgdown":
		base = strings.ToLower(name)
	case "space":
		base = " "
	default:
		if utf8.RuneCountInString(name) != 1 {
			return "", false
		}
		base = name
	}

	if shift {
		switch {
		case utf8.RuneCountInString(base) == 1 && base != " ":
			base = strings.ToUpper(base)
		default:
			base = "shift+" + base
		}
	}
	if ctrl {
		base = "ctrl+" + strings.ToLower(base)
	}
	if alt {
		base = "alt+" + base
	}
	return base, true
}

func (km *keyMap) rebuild() {
	keys := map[command][]string{}
	for k, c := range km.byKey {
		keys[c] = append(keys[c], k)
	}
	km.bindings = map[command]key.Binding{}
	for _, c := range commandOrder {
		ks := keys[c]
		slices.Sort(ks)
		// A binding without keys reports itself disabled and drops out of help.
		km.bindings[c] = key.NewBinding(
			key.WithKeys(ks...),
			key.WithHelp(displayKeys(ks), commandDesc[c]),
		)
	}
}

func displayKeys(ks []string) string {
	out := make([]string, 0, len(ks))
	for _, k := range ks {
		if k == " " {
			k = "space"
		}
		out = append(out, k)
	}
	return strings.Join(out, "/")
}

func (km keyMap) lookup(msg tea.KeyMsg) (command, bool) {
	c, ok := km.byKey[msg.String()]
	return c, ok
}

// inputRune reports the digit or '.' carried by msg.
func inputRune(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if (r >= '0' && r <= '9') || r == '.' {
		return r, true
	}
	return 0, false
}

func (km keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		km.bindings[cmdNextSet], km.bindings[cmdNextExercise], km.bindings[cmdBumpWeightUp],
		km.bindings[cmdDeleteSet], km.bindings[cmdNextDay], km.bindings[cmdHelp], km.bindings[cmdQuit],
	}
}

func (km keyMap) FullHelp() [][]key.Binding {
	var cols [][]key.Binding
	for i := 0; i < len(commandOrder); i += 6 {
		var col []key.Binding
		for _, c := range commandOrder[i:min(i+6, len(commandOrder))] {
			col = append(col, km.bindings[c])
		}
		cols = append(cols, col)
	}
	return cols
}

// markdown lists the active bindings for the help overlay.
func (km keyMap) markdown() string {
	var sb strings.Builder
	sb.WriteString("## Active bindings\n\n| Key | Command |\n| --- | --- |\n")
	for _, c := range commandOrder {
		b := km.bindings[c]
		if !b.Enabled() {
			continue
		}
		fmt.Fprintf(&sb, "| `%s` | %s |\n", b.Help().Key, c)
	}
	return sb.String()
}
