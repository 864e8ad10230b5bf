package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"memorial/internal/gateway"
)

func signCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign [body]",
		Short: "Print the signature of a form-encoded parameter set",
		Long: `Print the canonical string and signature of a form-encoded parameter set.
The body is read from the argument, or from stdin when omitted. Any signature
field in the input is ignored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := readNotification(cmd, args)
			if err != nil {
				return err
			}
			passphrase, _ := cmd.Flags().GetString("passphrase")

			canonical, err := gateway.Encode(n.Params)
			if err != nil {
				return err
			}
			signature, err := gateway.Sign(n.Params, passphrase)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "canonical: %s\n", canonical)
			fmt.Fprintf(out, "signature: %s\n", signature)
			return nil
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [body]",
		Short: "Check the signature of a received notification body",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := readNotification(cmd, args)
			if err != nil {
				return err
			}
			passphrase, _ := cmd.Flags().GetString("passphrase")

			if err := gateway.Verify(n.Params, n.Signature, passphrase); err != nil {
				expected, _ := gateway.Sign(n.Params, passphrase)
				return fmt.Errorf("%w (got %q, expected %q)", err, n.Signature, expected)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "signature OK")
			return nil
		},
	}
}

func notifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Print a signed notification body for exercising a callback endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			passphrase, _ := cmd.Flags().GetString("passphrase")
			reference, _ := cmd.Flags().GetString("reference")
			status, _ := cmd.Flags().GetString("status")
			amount, _ := cmd.Flags().GetString("amount")
			merchantID, _ := cmd.Flags().GetString("merchant-id")
			token, _ := cmd.Flags().GetString("token")

			if reference == "" {
				return fmt.Errorf("--reference is required")
			}

			var params gateway.Params
			params.Add(gateway.FieldReference, reference)
			params.Add(gateway.FieldGatewayPaymentID, uuid.New().String()[:8])
			params.Add(gateway.FieldPaymentStatus, strings.ToUpper(status))
			if amount != "" {
				gross, err := decimal.NewFromString(amount)
				if err != nil {
					return fmt.Errorf("invalid --amount %q: %w", amount, err)
				}
				params.Add(gateway.FieldAmountGross, gross)
			}
			if token != "" {
				params.Add(gateway.FieldToken, token)
			}
			if merchantID != "" {
				params.Add(gateway.FieldMerchantID, merchantID)
			}

			body, err := gateway.SignedBody(params, passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}

	cmd.Flags().StringP("reference", "r", "", "Order or subscription id (m_payment_id)")
	cmd.Flags().StringP("status", "s", gateway.StatusComplete, "Payment status")
	cmd.Flags().StringP("amount", "a", "", "Gross amount (omitted when unset)")
	cmd.Flags().String("merchant-id", os.Getenv("GATEWAY_MERCHANT_ID"), "Merchant id (default $GATEWAY_MERCHANT_ID)")
	cmd.Flags().String("token", "", "Subscription token")

	return cmd
}

func readNotification(cmd *cobra.Command, args []string) (*gateway.Notification, error) {
	var body []byte
	if len(args) == 1 {
		body = []byte(args[0])
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		body = data
	}
	return gateway.ParseNotification(body)
}
