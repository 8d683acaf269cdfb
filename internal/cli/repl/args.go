package repl

import (
	"errors"
	"strings"
)

// ErrUnbalancedQuotes is returned for a line with an unterminated quote.
var ErrUnbalancedQuotes = errors.New("unbalanced quotes")

// SplitArgs splits a command line into arguments. Arguments are separated
// by whitespace; double quotes allow spaces and the escapes \n \r \t \"
// and \; single quotes are literal except for \'.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   byte
		escaped bool
	)

	for i := 0; i < len(line); i++ {
		ch := line[i]

		switch {
		case escaped:
			escaped = false
			if quote == '"' {
				switch ch {
				case 'n':
					ch = '\n'
				case 'r':
					ch = '\r'
				case 't':
					ch = '\t'
				}
				cur.WriteByte(ch)
				continue
			}
			// Single quotes only recognise \'.
			if ch != '\'' {
				cur.WriteByte('\\')
			}
			cur.WriteByte(ch)
		case quote != 0:
			switch ch {
			case '\\':
				escaped = true
			case quote:
				quote = 0
				// A closing quote must end the argument.
				if i+1 < len(line) && !isSpace(line[i+1]) {
					return nil, ErrUnbalancedQuotes
				}
			default:
				cur.WriteByte(ch)
			}
		case isSpace(ch):
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		case ch == '"' || ch == '\'':
			if inArg && cur.Len() > 0 {
				cur.WriteByte(ch)
				continue
			}
			inArg = true
			quote = ch
		default:
			inArg = true
			cur.WriteByte(ch)
		}
	}

	if quote != 0 || escaped {
		return nil, ErrUnbalancedQuotes
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
