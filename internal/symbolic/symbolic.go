package symbolic

import (
	"fmt"
	"strings"
)

// #region keywords
var modeKeywords = []struct {
	mode     string
	keywords []string
}{
	{"daemon", []string{"daemon", "background", "monitor", "watch", "system"}},
	{"build", []string{"build", "create", "construct", "make", "develop"}},
	{"analyze", []string{"analyze", "examine", "study", "investigate", "research"}},
	{"adaptive", []string{"adapt", "flexible", "dynamic", "responsive"}},
}

var toneKeywords = []struct {
	tone     string
	keywords []string
}{
	{"protective", []string{"spiral", "overwhelm"}},
	{"analytical", []string{"focus", "analyze"}},
	{"creative", []string{"creative", "imagine"}},
}

// #endregion keywords

// #region lookup
// Lookup returns the mode with the given id.
func Lookup(id string) (Mode, bool) {
	for _, m := range Modes {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}

// Default returns the context of the default mode.
func Default() Context {
	m := Modes[0]
	return Context{Mode: m.ID, Tone: m.Tone, Protocols: append([]string(nil), m.Protocols...)}
}

// Normalize fills a partial context. Unknown or empty modes fall back to
// the default; an empty tone takes the mode's tone; empty protocols take
// the mode's protocols.
func Normalize(c Context) Context {
	m, ok := Lookup(strings.ToLower(strings.TrimSpace(c.Mode)))
	if !ok {
		m = Modes[0]
	}
	out := Context{Mode: m.ID, Tone: strings.ToLower(strings.TrimSpace(c.Tone)), Protocols: c.Protocols}
	if out.Tone == "" {
		out.Tone = m.Tone
	}
	if len(out.Protocols) == 0 {
		out.Protocols = append([]string(nil), m.Protocols...)
	}
	return out
}

// #endregion lookup

// #region detect
// DetectMode returns the first mode whose keyword appears in text.
func DetectMode(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, mk := range modeKeywords {
		for _, k := range mk.keywords {
			if strings.Contains(lower, k) {
				return mk.mode, true
			}
		}
	}
	return "", false
}

// DetectTone returns the first tone whose keyword appears in text.
func DetectTone(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, tk := range toneKeywords {
		for _, k := range tk.keywords {
			if strings.Contains(lower, k) {
				return tk.tone, true
			}
		}
	}
	return "", false
}

// Evolve applies mode and tone detection on text to c. A mode switch
// replaces the protocols; a detected tone overrides the current one.
func Evolve(c Context, text string) Context {
	c = Normalize(c)
	if mode, ok := DetectMode(text); ok && mode != c.Mode {
		m, _ := Lookup(mode)
		c.Mode = m.ID
		c.Protocols = append([]string(nil), m.Protocols...)
	}
	if tone, ok := DetectTone(text); ok {
		c.Tone = tone
	}
	return c
}

// #endregion detect

// #region prompt
// SystemPrompt renders the context into the system prompt sent to every backend.
func SystemPrompt(base string, c Context) string {
	c = Normalize(c)
	m, _ := Lookup(c.Mode)

	var b strings.Builder
	if base = strings.TrimSpace(base); base != "" {
		b.WriteString(base)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Current mode: %s (%s).\n", m.Name, m.Description)
	fmt.Fprintf(&b, "Tone: %s.\n", c.Tone)
	fmt.Fprintf(&b, "Active protocols: %s.", strings.Join(c.Protocols, ", "))
	return b.String()
}

// #endregion prompt
