package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"storefront/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Sign in and persist the session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := ""
		if len(args) == 1 {
			username = args[0]
		} else {
			fmt.Print("Username: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			username = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		passBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		identity, token, err := backend.Login(context.Background(), username, string(passBytes))
		if err != nil {
			return fmt.Errorf("%s", api.Message(err, "login failed"))
		}
		if err := authStore.Login(identity, token); err != nil {
			return err
		}
		cartStore.SwitchUser(identity.ID)

		fmt.Printf("Signed in as %s (%d loyalty points)\n", identity.Username, identity.LoyaltyPoints)
		if identity.Admin {
			fmt.Println("Admin features are available.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear local session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, ok := authStore.Current()
		if !ok {
			fmt.Println("Not signed in.")
			return nil
		}
		authStore.Logout()
		fmt.Printf("Signed out %s.\n", identity.Username)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup [username] [email]",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print("Password: ")
		passBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		if err := backend.Signup(context.Background(), args[0], string(passBytes), args[1]); err != nil {
			return fmt.Errorf("%s", api.Message(err, "signup failed"))
		}
		fmt.Printf("Account %s created. Run 'storefront login %s' to sign in.\n", args[0], args[0])
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session, cart, and endpoint status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Backend:    %s\n", cfg.Backend.BaseURL)
		fmt.Printf("Processor:  %s\n", cfg.Processor.BaseURL)
		fmt.Printf("State dir:  %s\n", cfg.State.Dir)

		if identity, ok := authStore.Current(); ok {
			fmt.Printf("Signed in:  %s <%s>, %d loyalty points", identity.Username, identity.Email, identity.LoyaltyPoints)
			if identity.Admin {
				fmt.Print(" (admin)")
			}
			fmt.Println()
		} else {
			fmt.Println("Signed in:  no")
		}

		fmt.Printf("Cart:       %d items, ₹%.2f\n", cartStore.TotalItems(), cartStore.TotalPrice())
		return nil
	},
}
