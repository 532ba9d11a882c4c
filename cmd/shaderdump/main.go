// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command shaderdump builds the bundled sample programs and prints or
// encodes them for a target.
//
// Usage:
//
//	shaderdump list
//	shaderdump dump <sample> [--target webgpu] [--format text|json|msgpack|cbor]
//	shaderdump all --out dir [--jobs n]
//
// Settings may also come from a TOML file passed with --config; flags
// override the file.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gogpu/shaderdsl"
)

var rootCmd = &cobra.Command{
	Use:           "shaderdump",
	Short:         "Build and dump shader DSL sample programs",
	Long:          `shaderdump builds the sample programs for WebGL, WebGL2 or WebGPU and prints their sources and binding metadata`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		mode, _ := cmd.Flags().GetString("color")
		switch mode {
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		case "auto":
			color.NoColor = !isTerminal(os.Stdout)
		default:
			return fmt.Errorf("invalid --color %q (auto|on|off)", mode)
		}
		return nil
	},
}

var errColor = color.New(color.FgRed, color.Bold)

func main() {
	rootCmd.Version = shaderdsl.Version

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(allCmd)

	rootCmd.PersistentFlags().String("config", "", "TOML settings file")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log builds to stderr")

	if err := rootCmd.Execute(); err != nil {
		errColor.Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
