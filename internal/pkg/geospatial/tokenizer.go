package geospatial

import (
	"strconv"
	"strings"
	"unicode"
)

type tokenKind uint8

const (
	tokNumber tokenKind = iota
	tokSign
	tokHemisphere
	tokSeparator
	tokComma
	tokPairSeparator
)

type unitKind uint8

const (
	unitNone unitKind = iota
	unitDegree
	unitMinute
	unitSecond
)

// token is one lexical element of a coordinate string. Numbers keep their
// integer digits as text because the digit count drives packed-run decoding.
type token struct {
	kind     tokenKind
	unit     unitKind
	intPart  string
	fracPart string
	hasFrac  bool
	sym      byte
}

func (t token) value() float64 {
	return decimalValue(t.intPart, t.fracPart)
}

func decimalValue(intPart, fracPart string) float64 {
	s := intPart
	if s == "" {
		s = "0"
	}
	if fracPart != "" {
		s += "." + fracPart
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nan
	}
	return v
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func unitOf(r rune) unitKind {
	switch r {
	case '°', 'º', '˚':
		return unitDegree
	case '\'', '′', '’':
		return unitMinute
	case '"', '″', '”':
		return unitSecond
	}
	return unitNone
}

// tokenize splits s into tokens. It fails on any character that cannot be
// part of a coordinate.
func tokenize(s string) ([]token, bool) {
	rs := []rune(strings.TrimSpace(s))
	toks := make([]token, 0, 8)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case isDigit(r) || (r == '.' && i+1 < len(rs) && isDigit(rs[i+1])):
			start := i
			for i < len(rs) && isDigit(rs[i]) {
				i++
			}
			t := token{kind: tokNumber, intPart: string(rs[start:i])}
			if i < len(rs) && rs[i] == '.' {
				i++
				fs := i
				for i < len(rs) && isDigit(rs[i]) {
					i++
				}
				t.fracPart = string(rs[fs:i])
				t.hasFrac = true
				if i < len(rs) && rs[i] == '.' {
					return nil, false
				}
			}
			toks = append(toks, t)
			continue

		case unitOf(r) != unitNone:
			u := unitOf(r)
			if r == '\'' && i+1 < len(rs) && rs[i+1] == '\'' {
				u = unitSecond
				i++
			}
			n := len(toks)
			if n == 0 || toks[n-1].kind != tokNumber || toks[n-1].unit != unitNone {
				return nil, false
			}
			toks[n-1].unit = u

		case r == '+':
			toks = append(toks, token{kind: tokSign, sym: '+'})
		case r == '-' || r == '−':
			toks = append(toks, token{kind: tokSign, sym: '-'})

		case r == ',':
			toks = append(toks, token{kind: tokComma})
		case r == '/' || r == ';':
			toks = append(toks, token{kind: tokPairSeparator})

		case r == ':' || unicode.IsSpace(r):
			if n := len(toks); n == 0 || toks[n-1].kind != tokSeparator {
				toks = append(toks, token{kind: tokSeparator})
			}

		default:
			switch c := unicode.ToUpper(r); c {
			case 'N', 'S', 'E', 'W':
				toks = append(toks, token{kind: tokHemisphere, sym: byte(c)})
			default:
				return nil, false
			}
		}
		i++
	}
	return toks, true
}

// significant drops generic separators and commas.
func significant(toks []token) []token {
	out := make([]token, 0, len(toks))
	for _, t := range toks {
		if t.kind == tokSeparator || t.kind == tokComma {
			continue
		}
		out = append(out, t)
	}
	return out
}

// indexOfKind returns the index of the first token of kind k and how many
// such tokens there are.
func indexOfKind(toks []token, k tokenKind) (first, count int) {
	first = -1
	for i, t := range toks {
		if t.kind == k {
			if first < 0 {
				first = i
			}
			count++
		}
	}
	return first, count
}
