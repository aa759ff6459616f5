package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sydlexius/discogs"
	"github.com/sydlexius/discogs/model"
)

func cmdOrders(ctx context.Context, a *app, args []string) error {
	action, args := subcommand(args)
	fs := flag.NewFlagSet("orders "+action, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	status := fs.String("status", "", "order status filter, or new status for \"message\"")
	since := fs.String("since", "", "only orders created on or after this date (YYYY-MM-DD)")
	archived := fs.String("archived", "", "true or false to filter by archive state")
	page := fs.Int("page", 0, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.client(ctx)
	if err != nil {
		return err
	}

	switch action {
	case "list":
		req := &discogs.ListOrdersRequest{
			Status:     model.OrderStatus(*status),
			SortParams: discogs.SortParams{Sort: "last_activity", SortOrder: model.SortDesc},
			PageParams: discogs.PageParams{Page: *page},
		}
		if *since != "" {
			t, err := time.Parse(time.DateOnly, *since)
			if err != nil {
				return fmt.Errorf("invalid -since %q: want YYYY-MM-DD", *since)
			}
			req.CreatedAfter = t
		}
		if *archived != "" {
			v, err := strconv.ParseBool(*archived)
			if err != nil {
				return fmt.Errorf("invalid -archived %q", *archived)
			}
			req.Archived = &v
		}
		p, err := c.Marketplace.ListOrders(ctx, req)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(p.Items))
		for _, o := range p.Items {
			rows = append(rows, []string{
				o.ID,
				string(o.Status),
				o.Buyer.Username,
				strconv.Itoa(len(o.Items)),
				formatPrice(o.Total),
				formatTime(o.LastActivity),
			})
		}
		printTable(a.stdout, []string{"id", "status", "buyer", "items", "total", "last activity"}, rows)
		printPageFooter(a.stdout, p.Pagination)
		return nil

	case "show":
		if fs.NArg() != 1 {
			return errors.New("usage: discogs orders show <order-id>")
		}
		o, err := c.Marketplace.GetOrder(ctx, fs.Arg(0))
		if err != nil {
			if discogs.IsNotFound(err) {
				return fmt.Errorf("order %s not found", fs.Arg(0))
			}
			return err
		}
		next := make([]string, 0, len(o.NextStatus))
		for _, s := range o.NextStatus {
			next = append(next, string(s))
		}
		printPairs(a.stdout, [][2]string{
			{"id", o.ID},
			{"status", string(o.Status)},
			{"next status", strings.Join(next, ", ")},
			{"buyer", o.Buyer.Username},
			{"created", formatTime(o.Created)},
			{"total", formatPrice(o.Total)},
			{"fee", formatPrice(o.Fee)},
			{"shipping", fmt.Sprintf("%.2f %s %s", o.Shipping.Value, o.Shipping.Currency, o.Shipping.Method)},
			{"ship to", o.ShippingAddress},
		})
		fmt.Fprintln(a.stdout)
		rows := make([][]string, 0, len(o.Items))
		for _, it := range o.Items {
			rows = append(rows, []string{strconv.Itoa(it.ID), it.Release.Description, string(it.MediaCondition), formatPrice(it.Price)})
		}
		printTable(a.stdout, []string{"listing", "release", "condition", "price"}, rows)
		return nil

	case "messages":
		if fs.NArg() != 1 {
			return errors.New("usage: discogs orders messages <order-id>")
		}
		p, err := c.Marketplace.ListOrderMessages(ctx, &discogs.OrderMessagesRequest{
			OrderID:    fs.Arg(0),
			PageParams: discogs.PageParams{Page: *page},
		})
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(p.Items))
		for _, m := range p.Items {
			from := ""
			if m.From != nil {
				from = m.From.Username
			}
			rows = append(rows, []string{formatTime(m.Timestamp), from, m.Subject, m.Message})
		}
		printTable(a.stdout, []string{"time", "from", "subject", "message"}, rows)
		printPageFooter(a.stdout, p.Pagination)
		return nil

	case "message":
		if fs.NArg() < 1 {
			return errors.New("usage: discogs orders message [-status STATUS] <order-id> [text]")
		}
		m, err := c.Marketplace.AddOrderMessage(ctx, &discogs.AddOrderMessageRequest{
			OrderID: fs.Arg(0),
			Message: strings.Join(fs.Args()[1:], " "),
			Status:  model.OrderStatus(*status),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Sent: %s\n", m.Subject)
		return nil
	}
	return fmt.Errorf("unknown orders action %q (want list, show, messages or message)", action)
}
