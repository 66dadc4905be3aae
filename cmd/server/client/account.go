package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geocards/geocards-api/internal/handlers/v1alpha1"
)

var registerCmd = &cobra.Command{
	Use:   "register [email] [password]",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.AuthResponse, error) {
			resp, err := c.Register(ctx, &v1alpha1.RegisterRequest{Email: args[0], Password: args[1]})
			if err != nil {
				return nil, fmt.Errorf("failed to register: %w", err)
			}
			return resp, nil
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [email] [password]",
	Short: "Sign in and print a token",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.AuthResponse, error) {
			resp, err := c.Login(ctx, &v1alpha1.LoginRequest{Email: args[0], Password: args[1]})
			if err != nil {
				return nil, fmt.Errorf("failed to login: %w", err)
			}
			return resp, nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the token",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.LogoutResponse, error) {
			return c.Logout(ctx, &v1alpha1.LogoutRequest{})
		})
	},
}
