// Package cmd wires the reference parser, credential resolver, registry
// client and comparator into the docker-tags command line interface.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/toogle/docker-tags/internal/config"
	"github.com/toogle/docker-tags/internal/docker"
	"github.com/toogle/docker-tags/internal/log"
	"github.com/toogle/docker-tags/pkg/image"
	"github.com/toogle/docker-tags/pkg/registry"
	"github.com/toogle/docker-tags/pkg/tagsort"
	"github.com/toogle/docker-tags/pkg/types"
)

// errInvalidOutputFormat is returned for output formats other than text and json.
var errInvalidOutputFormat = errors.New("invalid output format")

// errInvalidFilter is returned when the --filter pattern is not a valid regexp.
var errInvalidFilter = errors.New("invalid filter pattern")

// Execute is the main entry point for docker-tags.
func Execute(args []string) {
	rootCmd := newRootCmd()
	rootCmd.Version = Version
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docker-tags [flags] IMAGE",
		Short: "List the tags of a container image, newest first.",
		Long: `docker-tags resolves an image reference, authenticates against its registry
and prints every tag, ordered by a semver-aware comparator. Tags that do not
parse as versions sort after the versioned ones, alphabetically.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runTags,
	}

	rootCmd.Flags().BoolP("reverse", "r", false, "Sort tags in reverse order")
	rootCmd.Flags().IntP("limit", "n", 0, "Maximum number of tags to print (0 means no limit)")
	rootCmd.Flags().StringP("filter", "f", "", "Only print tags matching this regular expression")
	rootCmd.Flags().StringP("output", "t", "text", "Output format. options: text|json")
	rootCmd.Flags().String("config", "", "Path to the configuration file")
	rootCmd.Flags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

// runTags runs the whole pipeline: parse, resolve credential, fetch, sort, print.
func runTags(cmd *cobra.Command, args []string) error {
	reverse, _ := cmd.Flags().GetBool("reverse")     //nolint:errcheck
	limit, _ := cmd.Flags().GetInt("limit")          //nolint:errcheck
	filter, _ := cmd.Flags().GetString("filter")     //nolint:errcheck
	output, _ := cmd.Flags().GetString("output")     //nolint:errcheck
	configPath, _ := cmd.Flags().GetString("config") //nolint:errcheck
	debug, _ := cmd.Flags().GetBool("debug")         //nolint:errcheck

	if output != "text" && output != "json" {
		return fmt.Errorf("%w: %q", errInvalidOutputFormat, output)
	}
	var pattern *regexp.Regexp
	if filter != "" {
		re, err := regexp.Compile(filter)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidFilter, err)
		}
		pattern = re
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	logger := log.NewLogger(ctx, debug || cfg.Debug)
	ctx = log.WithLogger(ctx, logger)

	ref, err := image.ParseReference(args[0], image.Options{
		DefaultRegistry:  cfg.DefaultRegistry,
		DefaultNamespace: cfg.DefaultNamespace,
	})
	if err != nil {
		return err
	}

	cred, err := docker.ResolveCredential(cfg.DockerConfigPath, ref.CredentialKey())
	if err != nil {
		return err
	}

	client := registry.NewClient(types.NewRealHTTPClient(cfg.HTTPTimeout), logger, cfg.PageSize)
	tags, err := client.ListTags(ctx, ref, cred)
	if err != nil {
		return err
	}

	sorted := tagsort.Sort(tags, reverse)
	if pattern != nil {
		sorted = retainMatching(sorted, pattern)
	}
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return printTags(cmd.OutOrStdout(), sorted, output)
}

// retainMatching keeps the tags matching pattern, preserving order.
func retainMatching(tags []string, pattern *regexp.Regexp) []string {
	matched := make([]string, 0, len(tags))
	for _, tag := range tags {
		if pattern.MatchString(tag) {
			matched = append(matched, tag)
		}
	}
	return matched
}

// printTags writes the ordered tags to w, one per line or as a JSON array.
func printTags(w io.Writer, tags []string, output string) error {
	if output == "json" {
		encoder := json.NewEncoder(w)
		if err := encoder.Encode(tags); err != nil {
			return fmt.Errorf("encoding tags: %w", err)
		}
		return nil
	}
	for _, tag := range tags {
		if _, err := fmt.Fprintln(w, tag); err != nil {
			return fmt.Errorf("writing tags: %w", err)
		}
	}
	return nil
}
