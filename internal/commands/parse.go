package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/tiletree/internal/tree"
)

// Split breaks a command line into arguments. Single and double quotes
// group words; a backslash escapes the next character inside quotes.
func Split(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		inToken bool
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote != 0 && r == '\\':
			escaped = true
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", line)
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}

// Quote renders s as a single argument that Split returns unchanged.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// Criteria selects containers by attribute, e.g. [con_id=4 con_mark=term].
type Criteria struct {
	ConID    *tree.ID
	WindowID *uint32
	Mark     string
}

// splitCriteria separates a leading [ ... ] block from the rest of line.
func splitCriteria(line string) (string, string, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "[") {
		return "", line, nil
	}
	var quote rune
	for i, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
		case r == '"' || r == '\'':
			quote = r
		case r == ']':
			return line[1:i], strings.TrimSpace(line[i+1:]), nil
		}
	}
	return "", "", fmt.Errorf("unterminated criteria")
}

// ParseCriteria parses the inside of a criteria block.
func ParseCriteria(s string) (*Criteria, error) {
	c := &Criteria{}
	fields, err := Split(s)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty criteria")
	}
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid criteria token %q", f)
		}
		switch key {
		case "con_id":
			n, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid con_id %q", value)
			}
			id := tree.ID(n)
			c.ConID = &id
		case "id":
			n, err := strconv.ParseUint(value, 0, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid id %q", value)
			}
			wid := uint32(n)
			c.WindowID = &wid
		case "con_mark":
			c.Mark = value
		default:
			return nil, fmt.Errorf("unsupported criteria %q", key)
		}
	}
	return c, nil
}

// Matches reports whether con satisfies every set field.
func (c *Criteria) Matches(con *tree.Container) bool {
	if c.ConID != nil && con.ID() != *c.ConID {
		return false
	}
	if c.WindowID != nil && con.WindowID != *c.WindowID {
		return false
	}
	if c.Mark != "" && !con.HasMark(c.Mark) {
		return false
	}
	return true
}
