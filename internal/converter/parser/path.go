package parser

import (
	"fmt"
	"strconv"
	"unicode"

	"room-planner/internal/converter/models"
)

// ============================================================
// Path Parser
// ============================================================

// argCount — сколько чисел принимает команда. Кривые и дуги заменяются
// отрезком до их конечной точки.
var argCount = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'S': 4, 'Q': 4,
	'C': 6,
	'A': 7,
	'Z': 0,
}

// ParsePath парсит SVG path в список точек. Подпути склеиваются подряд.
func ParsePath(d string) ([]models.Point, error) {
	subpaths, err := ParseSubpaths(d)
	if err != nil {
		return nil, err
	}
	var points []models.Point
	for _, sp := range subpaths {
		points = append(points, sp...)
	}
	return points, nil
}

// ParseSubpaths returns one polyline per moveto. Z closes back to the
// start of its own subpath.
func ParseSubpaths(d string) ([][]models.Point, error) {
	tokens, err := tokenize(d)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty path")
	}
	if tokens[0].cmd == 0 {
		return nil, fmt.Errorf("path must start with a command: %q", d)
	}

	var (
		out     [][]models.Point
		current []models.Point
		pos     models.Point
		start   models.Point
	)
	flush := func() {
		if len(current) > 0 {
			out = append(out, current)
		}
		current = nil
	}

	for i := 0; i < len(tokens); {
		cmd := tokens[i].cmd
		i++
		upper := byte(unicode.ToUpper(rune(cmd)))
		relative := cmd != upper
		n, ok := argCount[upper]
		if !ok {
			return nil, fmt.Errorf("unsupported path command %q", cmd)
		}

		if n == 0 {
			if len(current) > 0 {
				current = append(current, start)
				pos = start
			}
			continue
		}

		first := true
		for i < len(tokens) && tokens[i].cmd == 0 {
			if i+n > len(tokens) {
				return nil, fmt.Errorf("command %q: expected %d numbers", cmd, n)
			}
			args := make([]float64, n)
			for j := range n {
				if tokens[i+j].cmd != 0 {
					return nil, fmt.Errorf("command %q: expected %d numbers", cmd, n)
				}
				args[j] = tokens[i+j].num
			}
			i += n

			next := pos
			switch upper {
			case 'H':
				next.X = args[0]
				if relative {
					next.X += pos.X
				}
			case 'V':
				next.Y = args[0]
				if relative {
					next.Y += pos.Y
				}
			default:
				next = models.Point{X: args[n-2], Y: args[n-1]}
				if relative {
					next.X += pos.X
					next.Y += pos.Y
				}
			}

			if upper == 'M' && first {
				flush()
				start = next
			}
			current = append(current, next)
			pos = next
			first = false
		}
		if first {
			return nil, fmt.Errorf("command %q: missing arguments", cmd)
		}
	}
	flush()

	if len(out) == 0 {
		return nil, fmt.Errorf("no points in path %q", d)
	}
	return out, nil
}

// token is either a command letter (cmd != 0) or a number.
type token struct {
	cmd byte
	num float64
}

// tokenize splits path data. Numbers may be packed without separators,
// as in "M10-5.5.5".
func tokenize(d string) ([]token, error) {
	var out []token
	for i := 0; i < len(d); {
		ch := d[i]
		switch {
		case ch == ' ' || ch == ',' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case unicode.IsLetter(rune(ch)) && ch != 'e' && ch != 'E':
			out = append(out, token{cmd: ch})
			i++
		default:
			end := scanNumber(d, i)
			if end == i {
				return nil, fmt.Errorf("unexpected %q at offset %d", ch, i)
			}
			v, err := strconv.ParseFloat(d[i:end], 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q: %w", d[i:end], err)
			}
			out = append(out, token{num: v})
			i = end
		}
	}
	return out, nil
}

func scanNumber(s string, i int) int {
	j := i
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	digits, dot := false, false
	for ; j < len(s); j++ {
		c := s[j]
		if c >= '0' && c <= '9' {
			digits = true
			continue
		}
		if c == '.' && !dot {
			dot = true
			continue
		}
		break
	}
	if !digits {
		return i
	}

	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		expStart := k
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		if k > expStart {
			j = k
		}
	}
	return j
}
