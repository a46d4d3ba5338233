// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Name       string   `flag:"name" desc:"file name"`
		Verbose    bool     `flag:"verbose,v" desc:"enable verbose output"`
		Length     int      `flag:"length" desc:"bytes to read"`
		Offset     int64    `flag:"offset" desc:"byte offset"`
		Recipients []string `flag:"recipient" desc:"age recipient"`
		Untagged   string
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	err := flagSet.Parse([]string{
		"--name", "boot.cnt",
		"-v",
		"--length", "42",
		"--offset", "0x100",
		"--recipient", "age1first",
		"--recipient", "age1second,with,commas",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Name != "boot.cnt" {
		t.Errorf("Name = %q, want %q", p.Name, "boot.cnt")
	}
	if !p.Verbose {
		t.Error("Verbose = false, want true")
	}
	if p.Length != 42 {
		t.Errorf("Length = %d, want 42", p.Length)
	}
	if p.Offset != 0x100 {
		t.Errorf("Offset = %d, want 256", p.Offset)
	}
	if len(p.Recipients) != 2 || p.Recipients[0] != "age1first" || p.Recipients[1] != "age1second,with,commas" {
		t.Errorf("Recipients = %v, want [age1first age1second,with,commas]", p.Recipients)
	}
	if p.Untagged != "" {
		t.Errorf("Untagged = %q, want empty (should be skipped)", p.Untagged)
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Compression string   `flag:"compression" desc:"compression" default:"zstd"`
		Length      int      `flag:"length" desc:"length" default:"-1"`
		Size        int64    `flag:"size" desc:"size" default:"8192"`
		Sync        bool     `flag:"sync" desc:"sync" default:"true"`
		Tags        []string `flag:"tags" desc:"tags" default:"x,y"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Compression != "zstd" {
		t.Errorf("Compression = %q, want zstd", p.Compression)
	}
	if p.Length != -1 {
		t.Errorf("Length = %d, want -1", p.Length)
	}
	if p.Size != 8192 {
		t.Errorf("Size = %d, want 8192", p.Size)
	}
	if !p.Sync {
		t.Error("Sync = false, want true")
	}
	if len(p.Tags) != 2 || p.Tags[0] != "x" || p.Tags[1] != "y" {
		t.Errorf("Tags = %v, want [x y]", p.Tags)
	}
}

func TestBindFlags_Embedded(t *testing.T) {
	type common struct {
		Device string `flag:"device,d" desc:"device path"`
	}
	type params struct {
		common
		JSONOutput
		Name string `flag:"name" desc:"file name"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse([]string{"-d", "fram.img", "--json", "--name", "cal.dat"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Device != "fram.img" {
		t.Errorf("Device = %q, want fram.img", p.Device)
	}
	if !p.OutputJSON {
		t.Error("OutputJSON = false, want true")
	}
	if p.Name != "cal.dat" {
		t.Errorf("Name = %q, want cal.dat", p.Name)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	tests := []struct {
		name    string
		params  any
		wantErr string
	}{
		{"not a pointer", struct{}{}, "pointer to a struct"},
		{"pointer to non-struct", new(int), "pointer to a struct"},
		{"unsupported type", &struct {
			Ratio float64 `flag:"ratio"`
		}{}, "unsupported type"},
		{"bad default", &struct {
			Count int `flag:"count" default:"many"`
		}{}, "default for --count"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := BindFlags(test.params, pflag.NewFlagSet("test", pflag.ContinueOnError))
			if err == nil {
				t.Fatal("BindFlags() = nil, want error")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), test.wantErr)
			}
		})
	}
}

func TestFlagsFromParams_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FlagsFromParams did not panic on invalid params")
		}
	}()
	FlagsFromParams("test", 42)
}

func TestEmitJSON(t *testing.T) {
	var output bytes.Buffer

	disabled := JSONOutput{}
	done, err := disabled.EmitJSON(&output, map[string]int{"files": 2})
	if done || err != nil {
		t.Fatalf("EmitJSON without --json = (%v, %v), want (false, nil)", done, err)
	}
	if output.Len() != 0 {
		t.Errorf("EmitJSON without --json wrote %q", output.String())
	}

	enabled := JSONOutput{OutputJSON: true}
	var files []string
	done, err = enabled.EmitJSON(&output, files)
	if !done || err != nil {
		t.Fatalf("EmitJSON = (%v, %v), want (true, nil)", done, err)
	}
	if got := strings.TrimSpace(output.String()); got != "[]" {
		t.Errorf("EmitJSON(nil slice) = %q, want []", got)
	}
}

func TestNewCommandLogger(t *testing.T) {
	var output bytes.Buffer

	logger, err := NewCommandLogger(&output, 0, "auto")
	if err != nil {
		t.Fatalf("NewCommandLogger: %v", err)
	}
	logger.Info("mounted", "files", 2)
	if !strings.HasPrefix(output.String(), "{") {
		t.Errorf("auto format on a non-terminal = %q, want JSON", output.String())
	}

	output.Reset()
	logger, err = NewCommandLogger(&output, 0, "text")
	if err != nil {
		t.Fatalf("NewCommandLogger: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("mounted", "files", 2)
	if !strings.Contains(output.String(), "msg=mounted files=2") {
		t.Errorf("text output = %q", output.String())
	}
	if strings.Contains(output.String(), "hidden") {
		t.Errorf("debug record emitted at info level: %q", output.String())
	}

	if _, err := NewCommandLogger(&output, 0, "xml"); err == nil {
		t.Error("NewCommandLogger(xml) = nil error, want error")
	}
}
