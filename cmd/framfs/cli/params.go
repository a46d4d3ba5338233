// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// FlagsFromParams returns a flag set bound to params, as [BindFlags]
// does. An unbindable params struct is a bug in the command definition,
// so it panics.
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags defines one flag on flagSet per tagged field of the struct
// params points to. A field is bound when it carries flag:"long" or
// flag:"long,s"; desc sets the help text and default the initial value,
// written as the field's Go type would parse it. Fields may be string,
// bool, int, int64 or []string. Embedded structs contribute their own
// tagged fields, which is how deviceParams and [JSONOutput] are shared.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStruct(value.Elem(), flagSet)
}

// flagSpec is the parsed tag set of one bound field.
type flagSpec struct {
	name, shorthand string
	usage           string
	defaultValue    string
}

func bindStruct(value reflect.Value, flagSet *pflag.FlagSet) error {
	for i := range value.NumField() {
		field, fieldValue := value.Type().Field(i), value.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindStruct(fieldValue, flagSet); err != nil {
				return fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			continue
		}
		tag, ok := field.Tag.Lookup("flag")
		if !ok || tag == "" {
			continue
		}
		name, shorthand, _ := strings.Cut(tag, ",")
		spec := flagSpec{
			name:         name,
			shorthand:    shorthand,
			usage:        field.Tag.Get("desc"),
			defaultValue: field.Tag.Get("default"),
		}
		if err := spec.bind(fieldValue.Addr().Interface(), flagSet); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

func (spec flagSpec) bind(target any, flagSet *pflag.FlagSet) error {
	var err error
	switch target := target.(type) {
	case *string:
		flagSet.StringVarP(target, spec.name, spec.shorthand, spec.defaultValue, spec.usage)
	case *bool:
		var initial bool
		if spec.defaultValue != "" {
			initial, err = strconv.ParseBool(spec.defaultValue)
		}
		flagSet.BoolVarP(target, spec.name, spec.shorthand, initial, spec.usage)
	case *int:
		var initial int
		if spec.defaultValue != "" {
			initial, err = strconv.Atoi(spec.defaultValue)
		}
		flagSet.IntVarP(target, spec.name, spec.shorthand, initial, spec.usage)
	case *int64:
		var initial int64
		if spec.defaultValue != "" {
			initial, err = strconv.ParseInt(spec.defaultValue, 0, 64)
		}
		flagSet.Int64VarP(target, spec.name, spec.shorthand, initial, spec.usage)
	case *[]string:
		var initial []string
		if spec.defaultValue != "" {
			initial = strings.Split(spec.defaultValue, ",")
		}
		flagSet.StringArrayVarP(target, spec.name, spec.shorthand, initial, spec.usage)
	default:
		return fmt.Errorf("unsupported type %s for flag --%s", reflect.TypeOf(target).Elem(), spec.name)
	}
	if err != nil {
		return fmt.Errorf("default for --%s: %w", spec.name, err)
	}
	return nil
}
