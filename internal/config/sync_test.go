// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests keep the mapstructure/json tags of Config and RuntimeEntry in
// step with the field names of the embedded CUE schema.

// extractCUEFields returns the regular field names of a CUE struct definition.
func extractCUEFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)
	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		fields[strings.TrimSuffix(sel.String(), "?")] = iter.IsOptional()
	}
	return fields
}

// extractGoTags returns the json tag names of typ's exported fields,
// skipping fields tagged "-".
func extractGoTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = true
	}
	return fields
}

func lookupDefinition(t *testing.T, name string) cue.Value {
	t.Helper()

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile schema: %v", schema.Err())
	}
	def := schema.LookupPath(cue.ParsePath(name))
	if !def.Exists() {
		t.Fatalf("schema has no %s definition", name)
	}
	return def
}

func assertFieldsSync(t *testing.T, def string, typ reflect.Type) {
	t.Helper()

	cueFields := extractCUEFields(t, lookupDefinition(t, def))
	goFields := extractGoTags(t, typ)

	for name := range cueFields {
		if !goFields[name] {
			t.Errorf("%s field %q has no matching %s tag", def, name, typ.Name())
		}
	}
	for name := range goFields {
		if _, ok := cueFields[name]; !ok {
			t.Errorf("%s tag %q has no matching %s field", typ.Name(), name, def)
		}
	}
}

func TestConfigSchemaSync(t *testing.T) {
	t.Parallel()
	assertFieldsSync(t, "#Config", reflect.TypeFor[Config]())
}

func TestRuntimeSchemaSync(t *testing.T) {
	t.Parallel()
	assertFieldsSync(t, "#Runtime", reflect.TypeFor[RuntimeEntry]())
}

func TestExecutionModesMatchSchema(t *testing.T) {
	t.Parallel()

	def := lookupDefinition(t, "#Runtime")
	for _, mode := range []ExecutionMode{ModeStdin, ModeFile, ModeArg} {
		probe := def.Context().Encode(map[string]any{"command": "x", "execution_mode": string(mode)})
		if err := def.Unify(probe).Validate(cue.Concrete(true)); err != nil {
			t.Errorf("schema rejects execution mode %q: %v", mode, err)
		}
	}
}
