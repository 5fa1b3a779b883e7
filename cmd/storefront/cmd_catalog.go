package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/api"
	"storefront/internal/types"
)

var (
	productsPage     int
	productsPageSize int
	searchLimit      int
	recommendLimit   int
)

func currentUserID() int64 {
	if identity, ok := authStore.Current(); ok {
		return identity.ID
	}
	return 0
}

func printProductRow(p types.Product) {
	line := fmt.Sprintf("%6d  %-36s ₹%9.2f", p.ID, p.Name, p.EffectivePrice())
	if p.Category != "" {
		line += "  " + p.Category
	}
	if p.DiscountPercent > 0 {
		line += fmt.Sprintf("  (%.0f%% off)", p.DiscountPercent)
	}
	fmt.Println(line)
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List catalog products",
	RunE: func(cmd *cobra.Command, args []string) error {
		products, info, err := backend.Products(context.Background(), api.ProductQuery{
			UserID:   currentUserID(),
			Page:     productsPage,
			PageSize: productsPageSize,
		})
		if err != nil {
			return fmt.Errorf("%s", api.Message(err, "could not load products"))
		}

		for _, p := range products {
			printProductRow(p)
		}
		if info.TotalPages > 0 {
			fmt.Printf("\nPage %d of %d (%d products)\n", productsPage, info.TotalPages, info.TotalCount)
		}
		return nil
	},
}

var productCmd = &cobra.Command{
	Use:   "product [id]",
	Short: "Show one product with similar items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		p, err := backend.Product(context.Background(), id, currentUserID())
		if err != nil {
			return fmt.Errorf("%s", api.Message(err, "could not load product"))
		}

		fmt.Printf("%s\n", p.Name)
		if p.Category != "" {
			fmt.Printf("Category: %s\n", p.Category)
		}
		fmt.Printf("Price:    ₹%.2f\n", p.EffectivePrice())
		if p.DiscountPercent > 0 && p.OriginalPrice != nil {
			fmt.Printf("Was:      ₹%.2f (%.0f%% off)\n", *p.OriginalPrice, p.DiscountPercent)
		}
		fmt.Printf("Stock:    %d\n", p.Stock)
		if p.Description != "" {
			fmt.Printf("\n%s\n", p.Description)
		}

		similar, err := backend.SimilarProducts(context.Background(), id, currentUserID(), 4)
		if err == nil && len(similar) > 0 {
			fmt.Println("\nSimilar products:")
			for _, s := range similar {
				printProductRow(s)
			}
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		results, err := backend.Search(context.Background(), query, searchLimit, currentUserID())
		if err != nil {
			return fmt.Errorf("%s", api.Message(err, "search failed"))
		}
		if len(results) == 0 {
			fmt.Printf("No products match %q.\n", query)
			return nil
		}
		for _, p := range results {
			printProductRow(p)
		}
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show recommended products",
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := backend.Recommendations(context.Background(), currentUserID(), recommendLimit)
		if err != nil {
			return fmt.Errorf("%s", api.Message(err, "could not load recommendations"))
		}
		if len(products) == 0 {
			fmt.Println("No recommendations right now.")
			return nil
		}
		for _, p := range products {
			printProductRow(p)
		}
		return nil
	},
}

func init() {
	productsCmd.Flags().IntVar(&productsPage, "page", 1, "Catalog page")
	productsCmd.Flags().IntVar(&productsPageSize, "page-size", 12, "Products per page")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 6, "Maximum results")
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 6, "Maximum recommendations")
}
