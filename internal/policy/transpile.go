package policy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Transpile converts a policy document into a Rego module in package
// rsaforge.assets.
func Transpile(doc Document) (string, error) {
	if doc.MaxExclamations < 0 {
		return "", fmt.Errorf("max_exclamations must not be negative")
	}

	var buf bytes.Buffer
	buf.WriteString("package rsaforge.assets\n\n")

	if words := lowered(doc.ForbiddenWords); len(words) > 0 {
		fmt.Fprintf(&buf, "forbidden_words := %s\n\n", regoArray(words))
		buf.WriteString("deny contains msg if {\n")
		buf.WriteString("  some t in input.texts\n")
		buf.WriteString("  some word in forbidden_words\n")
		buf.WriteString("  contains(lower(t.text), word)\n")
		buf.WriteString("  msg := sprintf(\"%s %d contains forbidden word: %s\", [t.kind, t.index, word])\n")
		buf.WriteString("}\n\n")
	}

	if phrases := lowered(doc.RequiredPhrases); len(phrases) > 0 {
		fmt.Fprintf(&buf, "required_phrases := %s\n\n", regoArray(phrases))
		buf.WriteString("deny contains msg if {\n")
		buf.WriteString("  some phrase in required_phrases\n")
		buf.WriteString("  not phrase_in_headline(phrase)\n")
		buf.WriteString("  msg := sprintf(\"no headline contains required phrase: %s\", [phrase])\n")
		buf.WriteString("}\n\n")
		buf.WriteString("phrase_in_headline(phrase) if {\n")
		buf.WriteString("  some h in input.headlines\n")
		buf.WriteString("  contains(lower(h), phrase)\n")
		buf.WriteString("}\n\n")
	}

	if doc.MaxExclamations > 0 {
		buf.WriteString("deny contains msg if {\n")
		buf.WriteString("  some t in input.texts\n")
		buf.WriteString("  n := count(indexof_n(t.text, \"!\"))\n")
		fmt.Fprintf(&buf, "  n > %d\n", doc.MaxExclamations)
		fmt.Fprintf(&buf, "  msg := sprintf(\"%%s %%d has %%d exclamation marks (max %d)\", [t.kind, t.index, n])\n", doc.MaxExclamations)
		buf.WriteString("}\n\n")
	}

	return buf.String(), nil
}

func lowered(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// regoArray renders strings as a Rego array literal. JSON string syntax is
// valid Rego.
func regoArray(items []string) string {
	raw, _ := json.Marshal(items)
	return string(raw)
}
