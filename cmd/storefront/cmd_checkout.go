package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/api"
	"storefront/internal/checkout"
	"storefront/internal/payment"
	"storefront/internal/types"
)

var (
	coName     string
	coMobile   string
	coPincode  string
	coFlat     string
	coArea     string
	coLandmark string
	coCity     string
	coState    string

	coCard   string
	coExpiry string
	coCVC    string
)

// checkoutCmd runs the same cart → address → payment sequence as the
// interactive flow, with the address and card supplied as flags.
var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Pay for the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !authStore.SignedIn() {
			return fmt.Errorf("sign in first: storefront login")
		}

		s := checkout.New(cfg.State.Dir, backend, processor, cartStore, authStore)
		if err := s.Begin(); err != nil {
			return err
		}
		fmt.Printf("Order total: ₹%.2f\n", s.Amount())

		addr := types.Address{
			FullName: coName,
			Mobile:   coMobile,
			Pincode:  coPincode,
			Flat:     coFlat,
			Area:     coArea,
			Landmark: coLandmark,
			City:     coCity,
			State:    coState,
		}
		if err := s.SubmitAddress(addr); err != nil {
			var fieldErrs checkout.FieldErrors
			if errors.As(err, &fieldErrs) {
				for field, msg := range fieldErrs {
					fmt.Printf("  --%s: %s\n", flagForField(field), msg)
				}
				return fmt.Errorf("address is incomplete")
			}
			return err
		}

		card, err := parseCardFlags()
		if err != nil {
			return err
		}

		result, err := s.Pay(context.Background(), card)
		if err != nil {
			if errors.Is(err, checkout.ErrOrderAfterCharge) {
				return fmt.Errorf("payment succeeded but the order could not be saved; "+
					"do not pay again, contact support: %v", err)
			}
			var procErr *payment.ProcessorError
			if errors.As(err, &procErr) {
				return fmt.Errorf("%s", procErr.Message)
			}
			return fmt.Errorf("%s", api.Message(err, "payment failed"))
		}

		fmt.Printf("Order %s placed, ₹%.2f paid.\n", result.OrderID, result.Amount)
		if result.PointsKnown {
			fmt.Printf("Loyalty points: %d\n", result.AwardedPoints)
		}
		return nil
	},
}

func parseCardFlags() (payment.Card, error) {
	card := payment.Card{
		Number: strings.ReplaceAll(coCard, " ", ""),
		CVC:    coCVC,
		Name:   coName,
	}
	parts := strings.Split(coExpiry, "/")
	if len(parts) != 2 {
		return card, fmt.Errorf("--expiry must be MM/YY")
	}
	mm, err := strconv.Atoi(parts[0])
	if err != nil {
		return card, fmt.Errorf("--expiry must be MM/YY")
	}
	yy, err := strconv.Atoi(parts[1])
	if err != nil {
		return card, fmt.Errorf("--expiry must be MM/YY")
	}
	card.ExpMonth = mm
	card.ExpYear = 2000 + yy
	return card, nil
}

func flagForField(field string) string {
	switch field {
	case "fullName":
		return "name"
	case "flat":
		return "flat"
	case "area":
		return "area"
	case "city":
		return "city"
	case "state":
		return "state"
	case "mobile":
		return "mobile"
	case "pincode":
		return "pincode"
	}
	return field
}

func init() {
	checkoutCmd.Flags().StringVar(&coName, "name", "", "Full name")
	checkoutCmd.Flags().StringVar(&coMobile, "mobile", "", "10-digit mobile number")
	checkoutCmd.Flags().StringVar(&coPincode, "pincode", "", "6-digit pincode")
	checkoutCmd.Flags().StringVar(&coFlat, "flat", "", "Flat / house")
	checkoutCmd.Flags().StringVar(&coArea, "area", "", "Area / street")
	checkoutCmd.Flags().StringVar(&coLandmark, "landmark", "", "Landmark (optional)")
	checkoutCmd.Flags().StringVar(&coCity, "city", "", "City")
	checkoutCmd.Flags().StringVar(&coState, "state", "", "State")
	checkoutCmd.Flags().StringVar(&coCard, "card", "", "Card number")
	checkoutCmd.Flags().StringVar(&coExpiry, "expiry", "", "Card expiry MM/YY")
	checkoutCmd.Flags().StringVar(&coCVC, "cvc", "", "Card CVC")
}
