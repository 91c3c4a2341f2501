package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/shipmarket/internal/api"
	"github.com/dmitrijs2005/shipmarket/internal/chain"
	"github.com/dmitrijs2005/shipmarket/internal/client/client"
)

// getSecret is an indirection over GetSecret so tests avoid the terminal.
var getSecret = GetSecret

var errLoginRequired = errors.New("please login first")

// Login reads a wallet private key without echo, signs the server challenge
// and keeps the wallet address for the prompt. The key is wiped afterwards.
func (a *App) Login(ctx context.Context) error {
	secret, err := getSecret(a.out, "Wallet private key (hex)")
	if err != nil {
		return err
	}
	defer func() { clear(secret) }()

	key, err := chain.LoadKey(chain.SignerConfig{PrivateKey: strings.TrimSpace(string(secret))})
	if err != nil {
		return err
	}

	wallet, err := a.authService.Login(ctx, key)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	a.mu.Lock()
	a.wallet = wallet
	a.mu.Unlock()

	fmt.Fprintf(a.out, "Logged in as %s\n", wallet)
	return nil
}

func (a *App) Market(ctx context.Context) error {
	l, err := a.marketService.Marketplace(ctx)
	if err != nil {
		if errors.Is(err, client.ErrLocalDataNotAvailable) {
			return errors.New("server unavailable and no cached listing")
		}
		return err
	}

	if l.Offline {
		a.setMode(ModeOffline)
		fmt.Fprintf(a.out, "Offline: showing listing cached at %s\n", l.SavedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(a.out, "Cargo (%d)\n", l.CargoCount)
	a.printOrders(l.Cargo)
	fmt.Fprintf(a.out, "Vessels (%d)\n", l.VesselCount)
	a.printOrders(l.Vessel)
	return nil
}

func (a *App) Portfolio(ctx context.Context) error {
	p, err := a.marketService.Portfolio(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Orders (%d)\n", len(p.Orders))
	a.printOrders(p.Orders)

	fmt.Fprintf(a.out, "Journeys (%d)\n", len(p.Journeys))
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, j := range p.Journeys {
		fmt.Fprintf(tw, "  %s\t%s → %s\t%s t\t%s/t\ttoken %s\n",
			j.ID, j.OriginPort, j.DestinationPort, j.AvailableCapacityTons, j.PricePerTon, j.TokenID)
	}
	tw.Flush()

	fmt.Fprintf(a.out, "Policies (%d issued, %d custom)\n", len(p.Issued), len(p.Custom))
	tw = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, ip := range p.Issued {
		fmt.Fprintf(tw, "  %s\torder %s\ttemplate %s\t%s\n", ip.ID, ip.OrderID, ip.TemplateID, ip.Status)
	}
	for _, up := range p.Custom {
		fmt.Fprintf(tw, "  %s\t%s\t%s > %s\tpayout %s\n", up.ID, up.Name, up.TriggerCondition, up.Threshold, up.Payout)
	}
	tw.Flush()

	fmt.Fprintf(a.out, "Matches (%d)\n", len(p.Matches))
	tw = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, m := range p.Matches {
		fmt.Fprintf(tw, "  %s\tcargo %s\tvessel %s\t%s\t%s\n", m.ID, m.CargoOrderID, m.VesselOrderID, m.AgreedPrice, m.Status)
	}
	return tw.Flush()
}

func (a *App) Templates(ctx context.Context) error {
	list, err := a.marketService.Templates(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTRIGGER\tPREMIUM\tPAYOUT")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s > %s\t%s\t%s\n", t.ID, t.Name, t.TriggerCondition, t.Threshold, t.Premium, t.Payout)
	}
	return tw.Flush()
}

func (a *App) Contracts(ctx context.Context) error {
	list, err := a.marketService.Contracts(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tADDRESS\tNETWORK\tCHAIN")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", c.Name, c.Address, c.Network, c.ChainID)
	}
	return tw.Flush()
}

// Order shows one order, or with a sub-command changes its status, applies
// an insurance template or asks for a risk assessment.
func (a *App) Order(ctx context.Context, args []string) error {
	id := args[0]

	if len(args) == 1 {
		o, err := a.marketService.Order(ctx, id)
		if err != nil {
			return err
		}
		a.printOrder(o)
		return nil
	}

	if !a.isLoggedIn() {
		return errLoginRequired
	}

	switch sub := args[1]; {
	case sub == "status" && len(args) == 3:
		if err := a.marketService.UpdateOrderStatus(ctx, id, args[2]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Order %s is now %s\n", id, args[2])

	case sub == "insure" && len(args) == 3:
		p, err := a.marketService.ApplyTemplate(ctx, id, args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Policy %s issued for order %s\n", p.ID, id)

	case sub == "risk" && len(args) == 2:
		r, err := a.marketService.AssessRisk(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Risk %s (%d/100, %s)\n", r.Level, r.Score, r.Source)
		for _, f := range r.Factors {
			fmt.Fprintf(a.out, "  - %s\n", f)
		}
		if r.Summary != "" {
			fmt.Fprintln(a.out, r.Summary)
		}

	default:
		return fmt.Errorf("usage: order <id> [status <status> | insure <template-id> | risk]")
	}
	return nil
}

func (a *App) printOrders(list []*api.Order) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, o := range list {
		fmt.Fprintf(tw, "  %s\t%s\t%s → %s\t%s\t%s\t%s\n",
			o.ID, o.Title, o.OriginPort, o.DestinationPort,
			o.DepartureDate.Format("2006-01-02"), o.Price, o.Status)
	}
	tw.Flush()
}

func (a *App) printOrder(o *api.Order) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", k, v)
		}
	}
	row("ID", o.ID)
	row("Type", o.Type)
	row("Title", o.Title)
	row("Owner", o.Owner)
	row("Route", o.OriginPort+" → "+o.DestinationPort)
	row("Dates", o.DepartureDate.Format("2006-01-02")+" .. "+o.ArrivalDate.Format("2006-01-02"))
	if o.Type == "cargo" {
		row("Weight", o.WeightTons.String()+" t")
		row("Cargo type", o.CargoType)
	} else {
		row("Vessel", o.VesselName)
		row("IMO", o.IMONumber)
		row("Capacity", o.CapacityTons.String()+" t")
	}
	row("Price", o.Price.String())
	row("Status", o.Status)
	row("Insurance", o.InsurancePolicyID)
	row("Token", o.TokenID)
	row("Contract", o.ContractAddress)
	row("Tx", o.TxHash)
	tw.Flush()
}

func shortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
