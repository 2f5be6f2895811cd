// Package shell is the line-oriented console front end of a trading
// session. It reads one command per line, dispatches it to the trading
// service and renders the outcome as text.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/service"
)

const menu = `
--- Stock Trading Platform ---
1. view-market                 simulate prices and show the market
2. buy <symbol> <quantity>     buy shares at the current price
3. sell <symbol> <quantity>    sell shares at the current price
4. view-portfolio              show holdings and cash
5. exit                        end the session
   deposit <amount>, withdraw <amount>, balance, trades, help`

// Shell runs a trading session over a reader and a writer.
type Shell struct {
	svc    *service.TradingService
	in     *bufio.Scanner
	out    io.Writer
	prompt string
}

// New creates a Shell reading commands from in and writing to out.
func New(svc *service.TradingService, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		svc:    svc,
		in:     bufio.NewScanner(in),
		out:    out,
		prompt: "Choose an option: ",
	}
}

// Run processes commands until exit, end of input or ctx is cancelled.
// It only returns an error when reading input fails.
func (s *Shell) Run(ctx context.Context) error {
	s.println(menu)
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, ok := s.ask(s.prompt)
		if !ok {
			s.println("")
			return s.in.Err()
		}
		if !s.dispatch(strings.Fields(line)) {
			return nil
		}
	}
}

// dispatch executes a single command. It returns false when the session
// should end.
func (s *Shell) dispatch(fields []string) bool {
	if len(fields) == 0 {
		return true
	}

	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case "1", "view-market", "market":
		s.viewMarket()
	case "2", "buy":
		s.trade(domain.SideBuy, args)
	case "3", "sell":
		s.trade(domain.SideSell, args)
	case "4", "view-portfolio", "portfolio":
		s.viewPortfolio()
	case "5", "exit", "quit":
		s.println("Goodbye.")
		return false
	case "deposit":
		s.cash(true, args)
	case "withdraw":
		s.cash(false, args)
	case "balance":
		s.printf("Cash: %s\n", s.svc.Cash())
	case "trades":
		s.listTrades()
	case "help", "?":
		s.println(menu)
	default:
		s.println("Invalid option. Please try again.")
	}
	return true
}

func (s *Shell) viewMarket() {
	s.println("Market Data:")
	for _, inst := range s.svc.ViewMarket() {
		s.printf("%s: %s\n", inst.Symbol, inst.Price)
	}
}

func (s *Shell) viewPortfolio() {
	view := s.svc.Portfolio()
	if len(view.Holdings) == 0 {
		s.println("Portfolio is empty.")
		s.printf("Cash: %s\n", view.Cash)
		return
	}

	s.println("Portfolio:")
	for _, h := range view.Holdings {
		s.printf("Stock: %s, Quantity: %d, Value: %s\n", h.Symbol, h.Quantity, h.Value)
	}
	s.printf("Cash: %s\n", view.Cash)
	s.printf("Equity: %s\n", view.Equity)
}

// trade handles buy and sell. Missing arguments are prompted for, the
// symbol first so an unknown one is reported before asking for a quantity.
func (s *Shell) trade(side domain.Side, args []string) {
	var symbol string
	if len(args) > 0 {
		symbol = args[0]
	} else {
		line, ok := s.ask("Enter stock symbol: ")
		if !ok {
			return
		}
		symbol = strings.TrimSpace(line)
	}

	if _, err := s.svc.Quote(symbol); err != nil {
		s.renderError(side, symbol, err)
		return
	}

	var rawQty string
	if len(args) > 1 {
		rawQty = args[1]
	} else {
		line, ok := s.ask("Enter quantity: ")
		if !ok {
			return
		}
		rawQty = strings.TrimSpace(line)
	}

	qty, err := strconv.ParseInt(rawQty, 10, 64)
	if err != nil {
		s.println("Invalid quantity.")
		return
	}

	var t *domain.Trade
	if side == domain.SideBuy {
		t, err = s.svc.Buy(symbol, qty)
	} else {
		t, err = s.svc.Sell(symbol, qty)
	}
	if err != nil {
		s.renderError(side, strings.ToUpper(symbol), err)
		return
	}

	verb := "Bought"
	if t.Side == domain.SideSell {
		verb = "Sold"
	}
	s.printf("%s %d shares of %s at %s (total %s)\n", verb, t.Quantity, t.Symbol, t.Price, t.Total)
}

func (s *Shell) cash(deposit bool, args []string) {
	if len(args) == 0 {
		s.println("Usage: deposit <amount> | withdraw <amount>")
		return
	}

	amount, err := domain.ParseMoney(args[0])
	if err != nil {
		s.println("Invalid amount.")
		return
	}

	var balance domain.Money
	if deposit {
		balance, err = s.svc.Deposit(amount)
	} else {
		balance, err = s.svc.Withdraw(amount)
	}
	if err != nil {
		s.renderError("", "", err)
		return
	}
	s.printf("Cash: %s\n", balance)
}

func (s *Shell) listTrades() {
	trades := s.svc.Trades()
	if len(trades) == 0 {
		s.println("No trades yet.")
		return
	}
	for _, t := range trades {
		s.printf("%s %-4s %d %s @ %s = %s\n",
			t.ExecutedAt.Format("15:04:05"), t.Side, t.Quantity, t.Symbol, t.Price, t.Total)
	}
}

// renderError turns a domain error into the message shown to the trader.
func (s *Shell) renderError(side domain.Side, symbol string, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		s.printf("Invalid input: %s.\n", validationErr.Message)
	case errors.Is(err, domain.ErrSymbolNotFound):
		s.println("Stock not found!")
	case errors.Is(err, domain.ErrInsufficientFunds) && side == domain.SideBuy:
		s.printf("Not enough balance to buy %s.\n", symbol)
	case errors.Is(err, domain.ErrInsufficientFunds):
		s.println("Insufficient funds!")
	case errors.Is(err, domain.ErrInsufficientShares):
		s.println("Not enough shares to sell.")
	default:
		s.printf("Error: %v\n", err)
	}
}

// ask writes prompt and reads the next line. It returns false at end of
// input.
func (s *Shell) ask(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *Shell) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
