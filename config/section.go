package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// section wraps one INI section and records the first parse error, so
// callers can read a whole section before checking.
type section struct {
	name string
	v    *viper.Viper
	err  error
}

func newSection(v *viper.Viper, name string) *section {
	s := &section{name: name, v: v.Sub(name)}
	if s.v == nil {
		s.v = viper.New()
	}
	return s
}

func (s *section) fail(key string, err error) {
	if s.err == nil {
		s.err = fmt.Errorf("config: [%s] %s: %w", s.name, key, err)
	}
}

func (s *section) has(key string) bool { return s.v.IsSet(key) }

func (s *section) str(key, def string) string {
	if !s.has(key) {
		return def
	}
	return strings.TrimSpace(s.v.GetString(key))
}

func (s *section) intval(key string, def int) int {
	if !s.has(key) {
		return def
	}
	n, err := strconv.Atoi(s.str(key, ""))
	if err != nil {
		s.fail(key, err)
		return def
	}
	return n
}

func (s *section) float(key string, def float64) float64 {
	if !s.has(key) {
		return def
	}
	f, err := strconv.ParseFloat(s.str(key, ""), 64)
	if err != nil {
		s.fail(key, err)
		return def
	}
	return f
}

func (s *section) boolean(key string, def bool) bool {
	if !s.has(key) {
		return def
	}
	b, err := strconv.ParseBool(s.str(key, ""))
	if err != nil {
		s.fail(key, err)
		return def
	}
	return b
}

func (s *section) strs(key string) []string {
	if !s.has(key) {
		return nil
	}
	return splitList(s.str(key, ""))
}

func (s *section) floats(key string) []float64 {
	var out []float64
	for _, p := range s.strs(key) {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			s.fail(key, err)
			return nil
		}
		out = append(out, f)
	}
	return out
}

func (s *section) ints(key string) []int32 {
	var out []int32
	for _, p := range s.strs(key) {
		n, err := strconv.Atoi(p)
		if err != nil {
			s.fail(key, err)
			return nil
		}
		out = append(out, int32(n))
	}
	return out
}

// pair reads an optional two-value key, nil when absent.
func (s *section) pair(key string) *[2]float64 {
	if !s.has(key) {
		return nil
	}
	p := s.pairValue(key)
	return &p
}

// pairValue reads a (min, max) range; a single value stands for both ends.
func (s *section) pairValue(key string) [2]float64 {
	f := s.floats(key)
	switch len(f) {
	case 0:
		return [2]float64{}
	case 1:
		return [2]float64{f[0], f[0]}
	case 2:
		return [2]float64{f[0], f[1]}
	default:
		s.fail(key, fmt.Errorf("expected 1 or 2 values, got %d", len(f)))
		return [2]float64{}
	}
}

func (s *section) nestedStrs(key string) [][]string {
	if !s.has(key) {
		return nil
	}
	groups, err := splitNested(s.str(key, ""))
	if err != nil {
		s.fail(key, err)
		return nil
	}
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = splitList(g)
	}
	return out
}

func (s *section) nestedFloats(key string) [][]float64 {
	var out [][]float64
	for _, group := range s.nestedStrs(key) {
		var fs []float64
		for _, p := range group {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				s.fail(key, err)
				return nil
			}
			fs = append(fs, f)
		}
		out = append(out, fs)
	}
	return out
}

func (s *section) nestedInts(key string) [][]int32 {
	var out [][]int32
	for _, group := range s.nestedFloats(key) {
		var ns []int32
		for _, f := range group {
			ns = append(ns, int32(f))
		}
		out = append(out, ns)
	}
	return out
}

// splitList splits a comma-separated list, with or without surrounding
// brackets.
func splitList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// splitNested splits "[[a, b], [c]]" into its inner list bodies.
func splitNested(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("expected a bracketed list of lists, got %q", s)
	}
	inner := s[1 : len(s)-1]
	var out []string
	depth, start := 0, 0
	for i, r := range inner {
		switch r {
		case '[':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced brackets in %q", s)
			}
			if depth == 0 {
				out = append(out, inner[start:i])
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets in %q", s)
	}
	return out, nil
}
