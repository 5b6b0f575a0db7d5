package main

import (
	"fmt"
	"strings"

	"github.com/jpalmerr/baaskit"
	"github.com/spf13/cobra"
)

// recipientCmd groups the messaging endpoints.
var recipientCmd = &cobra.Command{
	Use:   "recipient",
	Short: "Manage message recipients of the project",
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a recipient",
	Long: `Register a recipient with the resolved project.

The phone number may be given with or without dashes; it is normalised to
010-XXXX-XXXX and rejected locally if it does not fit.

Example:
  baaskit recipient register -c baaskit.yaml --name Kim --phone 01012345678
  baaskit recipient register -c baaskit.yaml --name Lee --phone 010-9876-5432 --meta team=ops`,
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(recipientCmd)
	recipientCmd.AddCommand(registerCmd)

	registerCmd.Flags().String("name", "", "recipient name (required)")
	registerCmd.Flags().String("phone", "", "mobile number (required)")
	registerCmd.Flags().StringToString("meta", nil, "metadata as key=value (repeatable)")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("phone")
}

func runRegister(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	name, _ := flags.GetString("name")
	phone, _ := flags.GetString("phone")
	meta, _ := flags.GetStringToString("meta")

	req := baaskit.RecipientRequest{
		Name:  strings.TrimSpace(name),
		Phone: phone,
	}
	if len(meta) > 0 {
		req.Metadata = make(map[string]any, len(meta))
		for k, v := range meta {
			req.Metadata[k] = v
		}
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	rec, err := client.Recipients().Register(cmd.Context(), req)
	if err != nil {
		return describe(err)
	}

	if err := printJSON(cmd.OutOrStdout(), rec); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
