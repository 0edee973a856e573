package clitools

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/biznex/bizconsole/src/events"
	"github.com/biznex/bizconsole/src/models"
	"github.com/biznex/bizconsole/src/templates"
	"github.com/biznex/bizconsole/src/utils"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// pageFooter prints the one-based page position and how to get the next page.
func pageFooter[T any](w io.Writer, page models.Page[T]) {
	if len(page.Content) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	totalPages := page.TotalPages
	if totalPages < 1 {
		totalPages = utils.NumPages(int(page.TotalElements), page.Size)
	}
	fmt.Fprintf(w, "Page %d of %d (%d total)", page.Page+1, totalPages, page.TotalElements)
	if page.HasNext() {
		fmt.Fprintf(w, "; use --page %d for more", page.Page+1)
	}
	fmt.Fprintln(w)
}

func printCustomers(w io.Writer, page models.Page[models.Customer]) {
	if len(page.Content) > 0 {
		t := newTable(w)
		fmt.Fprintln(t, "ID\tNAME\tCONTACT\tEMAIL\tCREDITS")
		for _, c := range page.Content {
			fmt.Fprintf(t, "%d\t%s\t%s\t%s\t%s\n", c.CustomerID, c.CustomerName, c.CustomerContact, c.CustomerEmail, templates.FormatMoney(c.CustomerCredits))
		}
		t.Flush()
	}
	pageFooter(w, page)
}

func printCredits(w io.Writer, credits models.CreditsPage) {
	printCustomers(w, credits.Page)
	fmt.Fprintf(w, "Total outstanding: %s, average %s\n", templates.FormatMoney(credits.TotalCredits), templates.FormatMoney(credits.AverageCredits))
}

func printProducts(w io.Writer, page models.Page[models.Product]) {
	if len(page.Content) > 0 {
		t := newTable(w)
		fmt.Fprintln(t, "ID\tNAME\tCATEGORY\tPRICE\tQTY\t")
		for _, p := range page.Content {
			lowStock := ""
			if p.ProductQuantity < templates.LowStockThreshold {
				lowStock = "low"
			}
			fmt.Fprintf(t, "%d\t%s\t%s\t%s\t%d\t%s\n", p.ProductID, p.ProductName, p.ProductCategory, templates.FormatMoney(p.PricePerItem), p.ProductQuantity, lowStock)
		}
		t.Flush()
	}
	pageFooter(w, page)
}

func printBills(w io.Writer, page models.Page[models.BillResponse]) {
	if len(page.Content) > 0 {
		t := newTable(w)
		fmt.Fprintln(t, "NUMBER\tDATE\tCUSTOMER\tTYPE\tSTATUS\tTOTAL")
		for _, b := range page.Content {
			fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s\t%s\n", b.BillNumber, b.BillDate, b.CustomerName, b.BillType, b.BillStatus, templates.FormatMoney(b.TotalAmount))
		}
		t.Flush()
	}
	pageFooter(w, page)
}

func printBill(w io.Writer, b *models.BillResponse) {
	fmt.Fprintf(w, "Bill %s\n", b.BillNumber)
	fmt.Fprintf(w, "Date:     %s\n", b.BillDate)
	fmt.Fprintf(w, "Customer: %s", b.CustomerName)
	if b.CustomerPhone != "" {
		fmt.Fprintf(w, " (%s)", b.CustomerPhone)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Type:     %s\n", b.BillType)
	fmt.Fprintf(w, "Status:   %s\n", b.BillStatus)
	fmt.Fprintf(w, "Payment:  %s\n", b.PaymentMethod)
	if b.OriginalBillNumber != "" {
		fmt.Fprintf(w, "Original: %s\n", b.OriginalBillNumber)
	}
	fmt.Fprintln(w)

	t := newTable(w)
	fmt.Fprintln(t, "PRODUCT\tQTY\tUNIT\tDISCOUNT/UNIT\tTOTAL")
	for _, item := range b.BillItems {
		fmt.Fprintf(t, "%s\t%d\t%s\t%s\t%s\n",
			item.ProductName,
			item.BillItemQuantity,
			templates.FormatMoney(item.BillItemPricePerUnit),
			templates.FormatMoney(item.DiscountPerUnit),
			templates.FormatMoney(item.TotalPrice),
		)
	}
	t.Flush()
	fmt.Fprintf(w, "Discount: %s\n", templates.FormatMoney(b.TotalDiscount))
	fmt.Fprintf(w, "Total:    %s\n", templates.FormatMoney(b.TotalAmount))
}

func printUsers(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}
	t := newTable(w)
	fmt.Fprintln(t, "USERNAME\tROLE\tEMAIL\tCONTACT")
	for _, u := range users {
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\n", u.Username, u.Role(), u.UserEmail, u.UserContact)
	}
	t.Flush()
}

func printEvent(w io.Writer, ev events.Event) {
	fmt.Fprintf(w, "%s  %s", ev.At.Local().Format("15:04:05"), ev.Kind)
	if ev.Username != "" {
		fmt.Fprintf(w, "  user=%s", ev.Username)
	}
	if ev.Reason != "" {
		fmt.Fprintf(w, "  reason=%q", ev.Reason)
	}
	fmt.Fprintln(w)
}
