package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storefront/internal/api"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and edit the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showCart()
	},
}

func showCart() error {
	items := cartStore.Items()
	if len(items) == 0 {
		fmt.Println("Cart is empty.")
		return nil
	}
	for _, item := range items {
		fmt.Printf("%6d  %-36s ₹%9.2f × %d = ₹%.2f\n",
			item.ProductID, item.Name, item.UnitPrice(), item.Quantity, item.LineTotal())
	}
	fmt.Printf("\nTotal: ₹%.2f (%d items)\n", cartStore.TotalPrice(), cartStore.TotalItems())
	return nil
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id]",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		// Price fields freeze at add time, so fetch the live product first.
		p, err := backend.Product(context.Background(), id, currentUserID())
		if err != nil {
			return fmt.Errorf("%s", api.Message(err, "could not load product"))
		}
		cartStore.Add(p)
		fmt.Printf("Added %s. Cart: %d items, ₹%.2f\n", p.Name, cartStore.TotalItems(), cartStore.TotalPrice())
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "rm [product-id]",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		cartStore.Remove(id)
		return showCart()
	},
}

var cartQtyCmd = &cobra.Command{
	Use:   "qty [product-id] [quantity]",
	Short: "Set a line's quantity (minimum 1)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		if n < 1 {
			fmt.Println("Quantity below 1 is ignored; use 'cart rm' to remove a line.")
			return nil
		}
		cartStore.SetQuantity(id, n)
		return showCart()
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		cartStore.Clear()
		fmt.Println("Cart emptied.")
		return nil
	},
}

func init() {
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartQtyCmd)
	cartCmd.AddCommand(cartClearCmd)
}
