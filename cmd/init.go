package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pders01/git-release/internal/config"
	"github.com/pders01/git-release/internal/git"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize git-release in the current repository",
	Long: `Create the default configuration and keep the release state out of git.

This command:
  - Creates a default config file if it doesn't exist
  - Adds the release state file to .git/info/exclude

Run this once per repository.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(reactorDir)
	if err != nil {
		return fmt.Errorf("failed to resolve reactor directory: %w", err)
	}
	if !git.IsGitRepo(root) {
		return fmt.Errorf("not a git repository")
	}

	configPath := cfgFile
	if configPath == "" {
		configDir, err := defaultConfigDir()
		if err != nil {
			return err
		}
		configPath = filepath.Join(configDir, "config.toml")
	}

	exists, err := afero.Exists(appFs, configPath)
	if err != nil {
		return fmt.Errorf("failed to check config file: %w", err)
	}
	if exists {
		fmt.Fprintf(stdout, "Config already exists: %s\n", configPath)
	} else {
		if err := appFs.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := afero.WriteFile(appFs, configPath, []byte(config.Default), 0644); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		fmt.Fprintf(stdout, "✓ Created default config: %s\n", configPath)
	}

	excludePath, err := git.InfoExcludePath(root)
	if err != nil {
		return err
	}

	top, err := git.TopLevel(root)
	if err != nil {
		return err
	}

	stateFile := config.GetStateFile()
	statePath := stateFile
	if !filepath.IsAbs(statePath) {
		statePath = filepath.Join(root, statePath)
	}

	if entry, ok := excludeEntry(top, statePath); !ok {
		fmt.Fprintf(stdout, "Release state is outside the repository, not ignored: %s\n", statePath)
	} else {
		added, err := appendLine(excludePath, entry)
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", excludePath, err)
		}
		if added {
			fmt.Fprintf(stdout, "✓ Ignoring release state: %s\n", entry)
		} else {
			fmt.Fprintf(stdout, "Release state already ignored: %s\n", entry)
		}
	}

	fmt.Fprintln(stdout, "\n✓ git-release initialized successfully!")
	fmt.Fprintln(stdout, "  You can now use: git-release prepare")

	return nil
}

// excludeEntry returns the info/exclude pattern anchoring statePath at the
// repository root, or false when the file lies outside the repository.
func excludeEntry(top, statePath string) (string, bool) {
	rel, err := filepath.Rel(resolveLinks(top), resolveLinks(statePath))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return "/" + filepath.ToSlash(rel), true
}

// resolveLinks evaluates symlinks of the longest existing prefix of path
func resolveLinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path
	}
	return filepath.Join(resolveLinks(parent), filepath.Base(path))
}

// appendLine adds line to the file unless it is already present
func appendLine(path, line string) (bool, error) {
	data, err := afero.ReadFile(appFs, path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	content := string(data)
	for _, existing := range strings.Split(content, "\n") {
		if strings.TrimSpace(existing) == line {
			return false, nil
		}
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += line + "\n"

	if err := appFs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	return true, afero.WriteFile(appFs, path, []byte(content), 0644)
}
