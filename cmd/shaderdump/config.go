// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/gogpu/shaderdsl"
	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/builder"
	"github.com/gogpu/shaderdsl/types"
)

// config holds the settings shared by dump and all.
type config struct {
	Target        string `toml:"target"`
	Format        string `toml:"format"`
	Precision     string `toml:"precision"`
	MergeUniforms bool   `toml:"merge_uniforms"`
	Check         bool   `toml:"check"`
	Output        output `toml:"output"`
}

type output struct {
	Dir  string `toml:"dir"`
	Jobs int    `toml:"jobs"`
}

func defaultConfig() config {
	return config{
		Target:        "webgpu",
		Format:        "text",
		Precision:     "highp",
		MergeUniforms: true,
	}
}

// loadConfig reads path over the defaults. An empty path yields the
// defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// resolveConfig loads the --config file and applies flags the user set.
func resolveConfig(cmd *cobra.Command) (config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("target") {
		cfg.Target, _ = flags.GetString("target")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("precision") {
		cfg.Precision, _ = flags.GetString("precision")
	}
	if flags.Changed("no-merge") {
		noMerge, _ := flags.GetBool("no-merge")
		cfg.MergeUniforms = !noMerge
	}
	if flags.Changed("check") {
		cfg.Check, _ = flags.GetBool("check")
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		cfg.Output.Dir, _ = flags.GetString("out")
	}
	if flags.Lookup("jobs") != nil && flags.Changed("jobs") {
		cfg.Output.Jobs, _ = flags.GetInt("jobs")
	}
	if _, err := parseFormat(cfg.Format); err != nil {
		return cfg, err
	}
	if _, err := parsePrecision(cfg.Precision); err != nil {
		return cfg, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		shaderdsl.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	return cfg, nil
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().String("target", "webgpu", "target (webgl|webgl2|webgpu)")
	cmd.Flags().String("format", "text", "output format (text|json|msgpack|cbor)")
	cmd.Flags().String("precision", "highp", "GLSL default precision (lowp|mediump|highp)")
	cmd.Flags().Bool("no-merge", false, "keep uniforms unmerged")
	cmd.Flags().Bool("check", false, "parse and lower WGSL output with naga")
}

func parsePrecision(s string) (ast.Precision, error) {
	switch strings.ToLower(s) {
	case "lowp":
		return ast.PrecisionLow, nil
	case "mediump":
		return ast.PrecisionMedium, nil
	case "highp", "":
		return ast.PrecisionHigh, nil
	}
	return 0, fmt.Errorf("invalid precision %q (lowp|mediump|highp)", s)
}

// builderOptions converts the config into builder options.
func (c config) builderOptions() []builder.Option {
	p, _ := parsePrecision(c.Precision)
	return []builder.Option{builder.WithPrecision(p), builder.WithUniformMerge(c.MergeUniforms)}
}

// targets returns the configured target, or every target for "all".
func (c config) targets() ([]types.Target, error) {
	if strings.EqualFold(c.Target, "all") {
		return shaderdsl.Targets, nil
	}
	t, err := shaderdsl.ParseTarget(c.Target)
	if err != nil {
		return nil, err
	}
	return []types.Target{t}, nil
}
