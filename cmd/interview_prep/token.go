package main

import (
	"fmt"

	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/server"
	"github.com/jonathan/interview-prep/internal/types"
	"github.com/spf13/cobra"
)

var (
	tokenSubject  string
	tokenName     string
	tokenEmail    string
	tokenImageURL string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for local development",
	Long:  `Sign a token with AUTH_JWT_SECRET the way the identity provider would, for calling the API without a front end.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "External user id (required)")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "Display name claim")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim")
	tokenCmd.Flags().StringVar(&tokenImageURL, "image-url", "", "Avatar URL claim")
	_ = tokenCmd.MarkFlagRequired("sub")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	authCfg, err := config.NewAuthConfig()
	if err != nil {
		return fmt.Errorf("failed to create auth config: %w", err)
	}

	token, err := server.NewJWTService(authCfg).GenerateToken(types.Identity{
		ClerkUserID: tokenSubject,
		Name:        tokenName,
		Email:       tokenEmail,
		ImageURL:    tokenImageURL,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
