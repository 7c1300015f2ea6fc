// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package minify

import (
	"fmt"
	"path/filepath"

	"github.com/apex/log"
)

// Modes accepted by HandlerFor.
const (
	OnErrorWarn   = "warn"
	OnErrorError  = "error"
	OnErrorIgnore = "ignore"
)

// ExtensionError reports a file whose content does not match its extension.
type ExtensionError struct {
	Name string
	Ext  string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("'%s' is not a valid '%s' file.", e.Name, e.Ext)
}

// ExtensionHandler is called for a file whose content does not match its
// extension. A non-nil error fails the batch.
type ExtensionHandler func(name string) error

// HandlerFor returns the handler for mode: warn, error or ignore.
func HandlerFor(mode string) (ExtensionHandler, error) {
	switch mode {
	case OnErrorWarn, "":
		return warnExtension, nil
	case OnErrorError:
		return failExtension, nil
	case OnErrorIgnore:
		return ignoreExtension, nil
	default:
		return nil, fmt.Errorf("unknown extension error mode: %q", mode)
	}
}

func newExtensionError(name string) *ExtensionError {
	return &ExtensionError{Name: name, Ext: filepath.Ext(name)}
}

func warnExtension(name string) error {
	log.Warn(newExtensionError(name).Error())
	return nil
}

func failExtension(name string) error {
	return newExtensionError(name)
}

func ignoreExtension(string) error {
	return nil
}
