// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/shaderdsl"
	"github.com/gogpu/shaderdsl/samples"
	"github.com/gogpu/shaderdsl/types"
)

var (
	nameColor = color.New(color.FgCyan, color.Bold)
	okColor   = color.New(color.FgGreen)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the sample programs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listSamples(cmd.OutOrStdout())
	},
}

func listSamples(w io.Writer) error {
	for _, s := range samples.All() {
		targets := make([]string, len(s.Targets))
		for i, t := range s.Targets {
			targets[i] = t.String()
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			nameColor.Sprint(s.Name), s.Kind, strings.Join(targets, ","), s.Description); err != nil {
			return err
		}
	}
	return nil
}

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] sample",
	Short: "Build one sample and print it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	addBuildFlags(dumpCmd)
	dumpCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	addBuildFlags(allCmd)
	allCmd.Flags().String("out", "", "output directory (default: summary only)")
	allCmd.Flags().Int("jobs", 0, "parallel builds (default: GOMAXPROCS)")
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, ok := samples.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown sample %q (see shaderdump list)", args[0])
	}
	targets, err := cfg.targets()
	if err != nil {
		return err
	}
	f, _ := parseFormat(cfg.Format)

	w := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer file.Close()
		w = file
	}

	for _, target := range targets {
		if !s.Supports(target) {
			if len(targets) > 1 {
				continue
			}
			return fmt.Errorf("sample %s does not support %s", s.Name, target)
		}
		p, err := buildSample(s, target, cfg)
		if err != nil {
			return err
		}
		if err := encode(w, p, f); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
	}
	return nil
}

// buildSample builds s and runs the optional naga check.
func buildSample(s samples.Sample, target types.Target, cfg config) (*samples.Program, error) {
	p, err := s.Build(target, cfg.builderOptions()...)
	if err != nil {
		return nil, err
	}
	if cfg.Check && target == types.WebGPU {
		for stage, src := range p.Sources() {
			if err := shaderdsl.CheckWGSL(src); err != nil {
				return nil, fmt.Errorf("sample %s %s stage: %w", s.Name, stage, err)
			}
		}
	}
	return p, nil
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Build every sample for every supported target",
	Args:  cobra.NoArgs,
	RunE:  runAll,
}

type job struct {
	sample samples.Sample
	target types.Target
}

func runAll(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("target") && cfg.Target == defaultConfig().Target {
		cfg.Target = "all"
	}
	targets, err := cfg.targets()
	if err != nil {
		return err
	}
	f, _ := parseFormat(cfg.Format)
	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	n, err := buildAll(cmd.Context(), planJobs(targets), cfg, f)
	if err != nil {
		return err
	}
	okColor.Fprintf(cmd.OutOrStdout(), "built %d programs\n", n)
	return nil
}

// planJobs pairs every sample with every target it supports.
func planJobs(targets []types.Target) []job {
	var jobs []job
	for _, s := range samples.All() {
		for _, t := range targets {
			if s.Supports(t) {
				jobs = append(jobs, job{sample: s, target: t})
			}
		}
	}
	return jobs
}

// buildAll runs jobs concurrently with one builder per job and writes each
// result to cfg.Output.Dir when set. It stops at the first failure.
func buildAll(ctx context.Context, jobs []job, cfg config, f format) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	limit := cfg.Output.Jobs
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var built atomic.Int64
	for _, j := range jobs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			p, err := buildSample(j.sample, j.target, cfg)
			if err != nil {
				return err
			}
			if cfg.Output.Dir != "" {
				name := j.sample.Name + "." + j.target.String() + f.ext()
				if err := writeFile(filepath.Join(cfg.Output.Dir, name), p, f); err != nil {
					return err
				}
			}
			built.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(built.Load()), err
	}
	return int(built.Load()), nil
}

func writeFile(path string, p *samples.Program, f format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return encode(file, p, f)
}
