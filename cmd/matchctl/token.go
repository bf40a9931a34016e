package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"friender-bender/internal/service"
)

// tokenCmd firma access tokens con el mismo secreto que verifica la API, para pruebas locales.
var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue an access token for local testing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := viper.GetString("jwt-secret")
		if secret == "" {
			return errors.New("jwt secret not configured: set JWT_SECRET")
		}
		jwtSvc := service.NewJWTService(secret, viper.GetString("jwt-issuer"))
		token, err := jwtSvc.IssueAccessToken(args[0], viper.GetDuration("ttl"))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().Duration("ttl", time.Hour, "token lifetime")
	viper.BindPFlag("ttl", tokenCmd.Flags().Lookup("ttl"))
}
