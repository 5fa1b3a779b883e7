package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/api"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show your order history",
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, ok := authStore.Current()
		if !ok {
			return fmt.Errorf("sign in first: storefront login")
		}

		orders, err := backend.UserOrders(context.Background(), identity.ID)
		if err != nil {
			return fmt.Errorf("%s", api.Message(err, "could not load orders"))
		}
		if len(orders) == 0 {
			fmt.Println("No orders yet.")
			return nil
		}

		for _, o := range orders {
			fmt.Printf("%s  %s  %-10s ₹%.2f\n",
				o.ID, o.CreatedAt.Format("2006-01-02 15:04"), o.Status, o.TotalAmount)
			for _, item := range o.Items {
				fmt.Printf("        %s × %d  ₹%.2f\n", item.Name, item.Quantity, item.Price*float64(item.Quantity))
			}
		}
		return nil
	},
}
