// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		validator FlagValidatorType
		wantErr   bool
	}{
		{name: "output text", value: "text", validator: OutputValidator},
		{name: "output yaml", value: "yaml", validator: OutputValidator},
		{name: "output bad", value: "xml", validator: OutputValidator, wantErr: true},
		{name: "on-error warn", value: "warn", validator: OnErrorValidator},
		{name: "on-error ignore", value: "ignore", validator: OnErrorValidator},
		{name: "on-error bad", value: "panic", validator: OnErrorValidator, wantErr: true},
		{name: "positive", value: 4, validator: PositiveValidator},
		{name: "zero", value: 0, validator: PositiveValidator, wantErr: true},
		{name: "not jammed", value: "/repo", validator: JammedFlagValidator},
		{name: "jammed", value: "--write", validator: JammedFlagValidator, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FlagValidators(tt.value, tt.validator)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
