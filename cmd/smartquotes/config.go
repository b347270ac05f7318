package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/dshills/smartquotes/internal/config"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and edit settings",
	}
	cmd.AddCommand(newConfigGetCmd(g), newConfigSetCmd(g), newConfigUnsetCmd(g))
	return cmd
}

func newConfigGetCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get [KEY]",
		Short: "Print the effective value of a setting, or all settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg := a.Config()
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, key := range cfg.Keys() {
					v, _ := cfg.Get(key)
					fmt.Fprintf(out, "%s = %s\n", key, formatValue(v))
				}
				return nil
			}

			v, ok := cfg.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", config.ErrSettingNotFound, args[0])
			}
			fmt.Fprintln(out, formatValue(v))
			return nil
		},
	}
}

func newConfigSetCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Write a setting to the JSON settings file",
		Long:  "Writes KEY to the --config file, which must be JSON. VALUE is parsed as JSON when it is valid JSON and stored as a string otherwise.",
		Example: "  smartquotes -c smartquotes.json config set use_ucs false\n" +
			"  smartquotes -c smartquotes.json config set default_language german-ucs",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := g.jsonConfigPath()
			if err != nil {
				return err
			}
			return config.SetJSON(path, args[0], parseValue(args[1]))
		},
	}
}

func newConfigUnsetCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Remove a setting from the JSON settings file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := g.jsonConfigPath()
			if err != nil {
				return err
			}
			return config.DeleteJSON(path, args[0])
		},
	}
}

func (g *globalOptions) jsonConfigPath() (string, error) {
	if g.configPath == "" {
		return "", errors.New("no settings file; pass --config")
	}
	switch strings.ToLower(filepath.Ext(g.configPath)) {
	case ".json", ".sublime-settings":
		return g.configPath, nil
	default:
		return "", fmt.Errorf("%s is not a JSON settings file", g.configPath)
	}
}

// parseValue reads s as JSON, falling back to a plain string.
func parseValue(s string) any {
	if gjson.Valid(s) {
		return gjson.Parse(s).Value()
	}
	return s
}

func formatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
