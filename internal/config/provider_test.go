// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"testing"
)

func TestLoadOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       LoadOptions
		wantErr    bool
		wantFields int
	}{
		{name: "all empty", opts: LoadOptions{}},
		{name: "all set", opts: LoadOptions{ConfigFilePath: "/tmp/mx.toml", ConfigDirPath: "/tmp"}},
		{name: "whitespace file", opts: LoadOptions{ConfigFilePath: "   "}, wantErr: true, wantFields: 1},
		{name: "whitespace dir", opts: LoadOptions{ConfigDirPath: "\t"}, wantErr: true, wantFields: 1},
		{name: "both whitespace", opts: LoadOptions{ConfigFilePath: " ", ConfigDirPath: " "}, wantErr: true, wantFields: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, ErrInvalidLoadOptions) {
				t.Errorf("error should wrap ErrInvalidLoadOptions, got: %v", err)
			}
			var loadErr *InvalidLoadOptionsError
			if !errors.As(err, &loadErr) {
				t.Fatalf("error should be *InvalidLoadOptionsError, got: %T", err)
			}
			if len(loadErr.FieldErrors) != tt.wantFields {
				t.Errorf("expected %d field errors, got %d", tt.wantFields, len(loadErr.FieldErrors))
			}
		})
	}
}

func TestProvider_RejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: "  "})
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Errorf("Load() error = %v, want ErrInvalidLoadOptions", err)
	}
}
