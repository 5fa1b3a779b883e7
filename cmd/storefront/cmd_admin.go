package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/api"
	"storefront/internal/types"
)

var (
	addName        string
	addPrice       float64
	addCategory    string
	addStock       int
	addDescription string
	addImage       string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Catalog administration",
}

// The admin flag on the local session only gates discovery; the backend
// enforces the role and answers 403 for everyone else.
var adminAddProductCmd = &cobra.Command{
	Use:   "add-product",
	Short: "Add a product to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !authStore.SignedIn() {
			return fmt.Errorf("sign in first: storefront login")
		}
		if addName == "" {
			return fmt.Errorf("--name is required")
		}
		if addPrice <= 0 {
			return fmt.Errorf("--price must be greater than zero")
		}

		err := backend.AddProduct(context.Background(), types.AdminProduct{
			Name:        addName,
			BasePrice:   addPrice,
			Category:    addCategory,
			Stock:       addStock,
			Description: addDescription,
			Image:       addImage,
		})
		if err != nil {
			return fmt.Errorf("%s", api.Message(err, "could not add product"))
		}
		fmt.Printf("Added %s.\n", addName)
		return nil
	},
}

func init() {
	adminAddProductCmd.Flags().StringVar(&addName, "name", "", "Product name")
	adminAddProductCmd.Flags().Float64Var(&addPrice, "price", 0, "Base price")
	adminAddProductCmd.Flags().StringVar(&addCategory, "category", "", "Category")
	adminAddProductCmd.Flags().IntVar(&addStock, "stock", 0, "Stock count")
	adminAddProductCmd.Flags().StringVar(&addDescription, "description", "", "Description")
	adminAddProductCmd.Flags().StringVar(&addImage, "image", "", "Image URL")

	adminCmd.AddCommand(adminAddProductCmd)
}
