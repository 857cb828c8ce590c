package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/app"
	"github.com/spigell/hirematch/internal/secrets"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an access token as the current session",
	Args:  cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		var token string
		var err error
		if loginTokenFile != "" {
			token, err = secrets.Load(secrets.Source{Name: "access token", File: loginTokenFile})
		} else {
			token, err = promptToken()
		}
		if err != nil {
			return err
		}

		claims, err := e.app.Login(ctx, token, time.Now())
		if err != nil {
			return err
		}

		e.logger.Info("logged in", zap.String("user", claims.Identity()), zap.String("role", claims.AccountRole()))
		if e.app.Config().TokenFile != "" {
			e.logger.Warn("token-file is configured and takes precedence over the stored session")
		}
		return nil
	}),
}

var loginTokenFile string

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		if err := e.app.Logout(ctx); err != nil {
			return err
		}
		e.logger.Info("logged out")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who the current token belongs to",
	Args:  cobra.NoArgs,
	RunE: action(func(_ context.Context, e *env, _ []string) error {
		claims, ok, err := e.app.Claims()
		if err != nil {
			return err
		}
		if !ok {
			e.out.Message("Not logged in. Run `%s login` or set %s.", appName, app.TokenEnv)
			return nil
		}

		e.out.Message("user:  %s", orUnknown(claims.Identity()))
		e.out.Message("role:  %s", orUnknown(claims.AccountRole()))
		if claims.ExpiresAt != nil {
			state := "valid"
			if claims.ExpiredAt(time.Now()) {
				state = "expired"
			}
			e.out.Message("token: %s until %s", state, claims.ExpiresAt.Time.Local().Format(time.RFC1123))
		}
		return nil
	}),
}

func init() {
	loginCmd.Flags().StringVar(&loginTokenFile, "token-file", "", "read the token from a file instead of prompting")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func promptToken() (string, error) {
	prompt := promptui.Prompt{
		Label: "Access token",
		Mask:  '*',
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("token is required")
			}
			return nil
		},
	}
	token, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return token, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
