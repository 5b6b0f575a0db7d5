package main

import (
	"fmt"

	"github.com/jpalmerr/baaskit"
	"github.com/spf13/cobra"
)

// accountCmd groups the account endpoints.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Sign up, log in, log out and inspect the current account",
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long: `Create an account.

With --project the account belongs to the resolved project and the
request goes to /account/signup-project unless --path says otherwise.

Example:
  baaskit account signup -c baaskit.yaml --user-id alice01 --password correct-horse
  baaskit account signup -c baaskit.yaml --project --user-id bob01 --password correct-horse`,
	RunE: runSignup,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print the session token",
	Long: `Log in and print the session token.

The CLI keeps no state between runs. Pass the printed access_token to
later commands with --token (and --token-project for project accounts).

Example:
  baaskit account login -c baaskit.yaml --user-id alice01 --password correct-horse`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session given by --token",
	RunE:  runLogout,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the account of the session given by --token",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(signupCmd, loginCmd, logoutCmd, infoCmd)

	for _, cmd := range []*cobra.Command{signupCmd, loginCmd} {
		cmd.Flags().String("user-id", "", "user id (required)")
		cmd.Flags().String("password", "", "password (required)")
		cmd.Flags().Bool("project", false, "use the resolved project identifier")
		_ = cmd.MarkFlagRequired("user-id")
		_ = cmd.MarkFlagRequired("password")
	}
	signupCmd.Flags().String("name", "", "display name")
	signupCmd.Flags().String("email", "", "email address")
	signupCmd.Flags().String("path", "", "signup endpoint path override")
}

// projectFor returns the resolved project identifier when --project is set.
func projectFor(cmd *cobra.Command, client *baaskit.Client) (string, error) {
	scoped, _ := cmd.Flags().GetBool("project")
	if !scoped {
		return "", nil
	}
	p, err := client.Project()
	if err != nil {
		return "", err
	}
	return p.ProjectID, nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	projectID, err := projectFor(cmd, client)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	req := baaskit.SignupRequest{ProjectID: projectID}
	req.UserID, _ = flags.GetString("user-id")
	req.Password, _ = flags.GetString("password")
	req.Name, _ = flags.GetString("name")
	req.Email, _ = flags.GetString("email")

	var opts []baaskit.CallOption
	path, _ := flags.GetString("path")
	if path == "" && projectID != "" {
		path = baaskit.ProjectSignupPath
	}
	if path != "" {
		opts = append(opts, baaskit.WithPath(path))
	}

	rec, err := client.Account().Signup(cmd.Context(), req, opts...)
	if err != nil {
		return describe(err)
	}
	return printJSON(cmd.OutOrStdout(), rec)
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	projectID, err := projectFor(cmd, client)
	if err != nil {
		return err
	}

	req := baaskit.LoginRequest{ProjectID: projectID}
	req.UserID, _ = cmd.Flags().GetString("user-id")
	req.Password, _ = cmd.Flags().GetString("password")

	res, err := client.Account().Login(cmd.Context(), req)
	if err != nil {
		return describe(err)
	}

	// the cookie is the credential; the body token is only a fallback
	token := res.AccessToken
	if t, ok := client.SessionToken(projectID); ok {
		token = t
	}

	return printJSON(cmd.OutOrStdout(), struct {
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type,omitempty"`
		TokenProject string `json:"token_project,omitempty"`
		Cookie       string `json:"cookie"`
	}{
		AccessToken:  token,
		TokenType:    res.TokenType,
		TokenProject: projectID,
		Cookie:       baaskit.SessionCookieName(projectID),
	})
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Account().Logout(cmd.Context()); err != nil {
		return describe(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	rec, err := client.Account().Info(cmd.Context())
	if err != nil {
		return describe(err)
	}
	return printJSON(cmd.OutOrStdout(), rec)
}
