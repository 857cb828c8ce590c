package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the color theme",
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current theme",
	Args:  cobra.NoArgs,
	RunE: action(func(_ context.Context, e *env, _ []string) error {
		e.out.Message("%s", themeName(e.app.Theme.IsDark()))
		return nil
	}),
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between dark and light",
	Args:  cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		dark, err := e.app.Theme.Toggle(ctx)
		if err != nil {
			return err
		}
		e.out.Message("%s", themeName(dark))
		return nil
	}),
}

var themeSetCmd = &cobra.Command{
	Use:       "set dark|light",
	Short:     "Set the theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"dark", "light"},
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		var dark bool
		switch args[0] {
		case "dark":
			dark = true
		case "light":
		default:
			return fmt.Errorf("unknown theme %q, expected dark or light", args[0])
		}
		if err := e.app.Theme.Set(ctx, dark); err != nil {
			return err
		}
		e.out.Message("%s", themeName(dark))
		return nil
	}),
}

func init() {
	themeCmd.AddCommand(themeShowCmd, themeToggleCmd, themeSetCmd)
	rootCmd.AddCommand(themeCmd)
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
