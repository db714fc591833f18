// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/spf13/viper"

	"github.com/luthersystems/conslisp/diagnostic"
)

// colorMode returns the --color setting.  An invalid value falls back to
// automatic detection.
func colorMode() diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(viper.GetString("color"))
	if err != nil {
		return diagnostic.ColorAuto
	}
	return mode
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}
