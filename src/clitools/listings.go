package clitools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/biznex/bizconsole/src/api"
	"github.com/biznex/bizconsole/src/console"
	"github.com/biznex/bizconsole/src/guard"
	"github.com/biznex/bizconsole/src/models"
	"github.com/spf13/cobra"
)

func init() {
	var customersPage int
	customersCommand := &cobra.Command{
		Use:   "customers [query]",
		Short: "List or search customers",
		Run: func(cmd *cobra.Command, args []string) {
			target := guard.Customers
			run(&target, func(ctx context.Context, app *console.App) error {
				params := api.PageParams{Page: customersPage}
				query := strings.Join(args, " ")

				var page models.Page[models.Customer]
				var err error
				if query == "" {
					page, err = app.API.Customers.List(ctx, params)
				} else {
					page, err = app.API.Customers.Search(ctx, query, params)
				}
				if err != nil {
					return err
				}
				printCustomers(os.Stdout, page)
				return nil
			})
		},
	}
	customersCommand.Flags().IntVar(&customersPage, "page", 0, "zero-based page number")
	console.ConsoleCommand.AddCommand(customersCommand)

	var creditsPage int
	creditsCommand := &cobra.Command{
		Use:   "credits [query]",
		Short: "List customers with outstanding credit",
		Run: func(cmd *cobra.Command, args []string) {
			target := guard.Credits
			run(&target, func(ctx context.Context, app *console.App) error {
				params := api.PageParams{Page: creditsPage}
				query := strings.Join(args, " ")

				if query != "" {
					page, err := app.API.Customers.SearchCredits(ctx, query, params)
					if err != nil {
						return err
					}
					printCustomers(os.Stdout, page)
					return nil
				}

				credits, err := app.API.Customers.Credits(ctx, params)
				if err != nil {
					return err
				}
				printCredits(os.Stdout, credits)
				return nil
			})
		},
	}
	creditsCommand.Flags().IntVar(&creditsPage, "page", 0, "zero-based page number")
	console.ConsoleCommand.AddCommand(creditsCommand)

	var (
		productsPage     int
		productsCategory string
	)
	productsCommand := &cobra.Command{
		Use:   "products [query]",
		Short: "List, search, or filter products",
		Run: func(cmd *cobra.Command, args []string) {
			target := guard.Products
			run(&target, func(ctx context.Context, app *console.App) error {
				params := api.PageParams{Page: productsPage}
				query := strings.Join(args, " ")

				var page models.Page[models.Product]
				var err error
				switch {
				case productsCategory != "":
					page, err = app.API.Products.ByCategory(ctx, productsCategory, params)
				case query != "":
					page, err = app.API.Products.SearchByName(ctx, query, params)
				default:
					page, err = app.API.Products.List(ctx, params)
				}
				if err != nil {
					return err
				}
				printProducts(os.Stdout, page)
				return nil
			})
		},
	}
	productsCommand.Flags().IntVar(&productsPage, "page", 0, "zero-based page number")
	productsCommand.Flags().StringVar(&productsCategory, "category", "", "only list products in this category")
	console.ConsoleCommand.AddCommand(productsCommand)

	var (
		billsPage     int
		billsCustomer string
	)
	billsCommand := &cobra.Command{
		Use:   "bills [query]",
		Short: "List or search bills",
		Run: func(cmd *cobra.Command, args []string) {
			target := guard.BillHistory
			run(&target, func(ctx context.Context, app *console.App) error {
				params := api.PageParams{Page: billsPage}
				query := strings.Join(args, " ")

				var page models.Page[models.BillResponse]
				var err error
				switch {
				case billsCustomer != "":
					page, err = app.API.Billing.ByCustomer(ctx, billsCustomer, params)
				case query != "":
					page, err = app.API.Billing.Search(ctx, query, params)
				default:
					page, err = app.API.Billing.List(ctx, params)
				}
				if err != nil {
					return err
				}
				printBills(os.Stdout, page)
				return nil
			})
		},
	}
	billsCommand.Flags().IntVar(&billsPage, "page", 0, "zero-based page number")
	billsCommand.Flags().StringVar(&billsCustomer, "customer", "", "only list bills for this customer contact")
	console.ConsoleCommand.AddCommand(billsCommand)

	billCommand := &cobra.Command{
		Use:   "bill [number]",
		Short: "Show a single bill",
		Run: func(cmd *cobra.Command, args []string) {
			requireArgs(cmd, args, 1, "You must provide a bill number.")
			target := guard.Billing
			run(&target, func(ctx context.Context, app *console.App) error {
				bill, err := app.API.Billing.Get(ctx, args[0])
				if err != nil {
					return err
				}
				printBill(os.Stdout, bill)
				return nil
			})
		},
	}
	console.ConsoleCommand.AddCommand(billCommand)

	usersCommand := &cobra.Command{
		Use:   "users",
		Short: "List user accounts (admin only)",
		Run: func(cmd *cobra.Command, args []string) {
			target := guard.AdminUsers
			run(&target, func(ctx context.Context, app *console.App) error {
				users, err := app.API.Users.List(ctx)
				if err != nil {
					return err
				}
				printUsers(os.Stdout, users)
				return nil
			})
		},
	}
	console.ConsoleCommand.AddCommand(usersCommand)

	deleteUserCommand := &cobra.Command{
		Use:   "delete [username]",
		Short: "Delete a user account (admin only)",
		Run: func(cmd *cobra.Command, args []string) {
			requireArgs(cmd, args, 1, "You must provide a username.")
			target := guard.AdminUsers
			run(&target, func(ctx context.Context, app *console.App) error {
				if user := app.State.User(); user != nil && strings.EqualFold(user.Username, args[0]) {
					return fmt.Errorf("refusing to delete the signed-in account '%s'", user.Username)
				}
				if err := app.API.Users.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Deleted user '%s'.\n", args[0])
				return nil
			})
		},
	}
	usersCommand.AddCommand(deleteUserCommand)

	var (
		registerEmail   string
		registerContact string
		registerRole    string
	)
	registerCommand := &cobra.Command{
		Use:   "register [username]",
		Short: "Register a new user (admin only)",
		Run: func(cmd *cobra.Command, args []string) {
			requireArgs(cmd, args, 1, "You must provide a username.")
			p := newStdinPrompter()
			target := guard.Register
			run(&target, func(ctx context.Context, app *console.App) error {
				password, confirm, err := p.NewPassword()
				if err != nil {
					return err
				}
				user, err := app.Auth.Register(ctx, models.Registration{
					Username:     args[0],
					UserEmail:    registerEmail,
					UserPassword: password,
					UserRole:     models.ParseRole(registerRole),
					UserContact:  registerContact,
				}, confirm)
				if err != nil {
					return err
				}
				username, role := args[0], models.ParseRole(registerRole)
				if user != nil && user.Username != "" {
					username, role = user.Username, user.Role()
				}
				fmt.Printf("Registered '%s' as %s.\n", username, role)
				return nil
			})
		},
	}
	registerCommand.Flags().StringVar(&registerEmail, "email", "", "email address")
	registerCommand.Flags().StringVar(&registerContact, "contact", "", "contact number")
	registerCommand.Flags().StringVar(&registerRole, "role", string(models.RoleUser), "USER or ADMIN")
	console.ConsoleCommand.AddCommand(registerCommand)
}
