// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "ab", 1},
		{"ab", "abc", 1},
		{"abc", "bac", 2},
		{"kitten", "sitting", 3},
		{"create", "crate", 1},
		{"format", "fromat", 2},
		{"import", "imprt", 1},
	}

	for _, test := range tests {
		t.Run(test.a+"/"+test.b, func(t *testing.T) {
			got := levenshtein(test.a, test.b)
			if got != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
			}
		})
	}
}

func TestLevenshtein_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"abc", "abd"},
		{"export", "exprot"},
		{"inspect", "inspcet"},
	}

	for _, pair := range pairs {
		forward := levenshtein(pair[0], pair[1])
		reverse := levenshtein(pair[1], pair[0])
		if forward != reverse {
			t.Errorf("levenshtein(%q, %q) = %d, but reverse = %d",
				pair[0], pair[1], forward, reverse)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "format"},
		{Name: "create"},
		{Name: "clear"},
		{Name: "export"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"fromat", "format"},
		{"crate", "create"},
		{"clearr", "clear"},
		{"exprot", "export"},
		{"zzzzzzzz", ""},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if got := suggestCommand(test.input, commands); got != test.want {
				t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestSuggestFlag(t *testing.T) {
	newFlagSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("read", pflag.ContinueOnError)
		flagSet.Int64P("offset", "o", 0, "start offset")
		flagSet.IntP("length", "n", -1, "bytes to read")
		flagSet.StringP("device", "d", "", "device path")
		return flagSet
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"typo", []string{"--ofset", "4"}, "--offset"},
		{"typo with value", []string{"--lenght=8"}, "--length"},
		{"known flags skipped", []string{"-d", "fram.img", "--devce", "x"}, "--device"},
		{"positional args skipped", []string{"boot.cnt", "--ofset"}, "--offset"},
		{"too distant", []string{"--zzzzzzzz"}, ""},
		{"nothing unknown", []string{"--offset", "1"}, ""},
		{"only the first unknown flag", []string{"--zzzzzzzz", "--ofset"}, ""},
		{"known shorthand skipped", []string{"-o", "2", "--lenth"}, "--length"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := suggestFlag(test.args, newFlagSet()); got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}

func TestClosest(t *testing.T) {
	tests := []struct {
		input      string
		candidates []string
		want       string
	}{
		{"inspct", []string{"import", "inspect"}, "inspect"},
		{"xprt", []string{"export", "import"}, "export"},
		{"abcd", []string{"wxyz"}, ""},
		{"abc", nil, ""},
		{"wxyz", []string{"wxy"}, "wxy"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if got := closest(test.input, test.candidates); got != test.want {
				t.Errorf("closest(%q, %v) = %q, want %q", test.input, test.candidates, got, test.want)
			}
		})
	}
}
