package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
	"github.com/hammamikhairi/ottopantry/internal/recipe"
	"github.com/hammamikhairi/ottopantry/internal/storage"
)

// printer is the part of display.UI the command loop writes to.
type printer interface {
	Println(a ...interface{})
	PrintHeading(text string)
	PrintBlock(text string)
	PrintResult(text string)
	PrintOK(text string)
	PrintHint(text string)
	PrintError(text string)
}

type cliApp struct {
	ledger *storage.Ledger
	book   *recipe.Book
	parser domain.CommandParser
	out    printer
	quit   func()
	now    func() time.Time
	window time.Duration
	log    *logger.Logger
}

// run reads lines until the input closes, ctx ends, or the user quits.
func (a *cliApp) run(ctx context.Context, in <-chan string) {
	for {
		var line string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case line, ok = <-in:
			if !ok {
				return
			}
		}

		cmd, err := a.parser.Parse(ctx, line)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}
		if cmd.Kind == domain.CommandUnknown && cmd.Raw == "" {
			continue
		}

		a.log.Debug("command: %s %q", cmd.Kind, cmd.Args)
		if !a.handle(cmd) {
			return
		}
	}
}

// handle executes one command and reports whether the loop should go on.
// Core errors are printed, never fatal.
func (a *cliApp) handle(cmd *domain.Command) bool {
	var err error
	switch cmd.Kind {
	case domain.CommandHelp:
		a.showHelp()
	case domain.CommandQuit:
		a.out.PrintOK("Bye!")
		if a.quit != nil {
			a.quit()
		}
		return false
	case domain.CommandList:
		a.out.PrintBlock(a.ledger.ListAll())
	case domain.CommandShow:
		err = a.show(cmd)
	case domain.CommandAdd:
		err = a.add(cmd)
	case domain.CommandRemove:
		err = a.remove(cmd)
	case domain.CommandPurge:
		a.purge()
	case domain.CommandExpired:
		err = a.expired(cmd)
	case domain.CommandValue:
		err = a.value(cmd)
	case domain.CommandRecipes:
		err = a.recipes()
	case domain.CommandSuggest:
		err = a.suggest()
	case domain.CommandRecipe:
		err = a.showRecipe(cmd)
	case domain.CommandCheck:
		err = a.check(cmd)
	case domain.CommandCook:
		err = a.cook(cmd)
	case domain.CommandScale:
		err = a.scale(cmd)
	default:
		a.out.PrintHint(fmt.Sprintf("I don't know %q. Type 'help' for commands.", cmd.Raw))
	}

	if err != nil {
		a.report(err)
	}
	return true
}

// report turns an error into a message keyed on its kind.
func (a *cliApp) report(err error) {
	a.log.Debug("command failed: %v", err)
	switch {
	case errors.Is(err, domain.ErrInsufficientIngredients):
		a.out.PrintError("Not enough ingredients: " + err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.out.PrintError("Not found: " + err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		a.out.PrintError("Already exists: " + err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		a.out.PrintError("Invalid input: " + err.Error())
	default:
		a.out.PrintError("Error: " + err.Error())
	}
}

// ── Grocery commands ─────────────────────────────────────────────

func (a *cliApp) show(cmd *domain.Command) error {
	name, err := needArgs(cmd, "show <name>", 1)
	if err != nil {
		return err
	}
	text, err := a.ledger.Describe(name[0])
	if err != nil {
		return err
	}
	a.out.PrintHeading(name[0] + ":")
	a.out.PrintBlock(text)
	return nil
}

func (a *cliApp) add(cmd *domain.Command) error {
	args, err := needArgs(cmd, "add <name> <quantity> <unit> <YYYY-MM-DD> [unit price]", 4)
	if err != nil {
		return err
	}
	qty, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	unit, err := domain.ParseUnit(args[2])
	if err != nil {
		return err
	}
	expiry, err := parseDate(args[3])
	if err != nil {
		return err
	}
	price := decimal.Zero
	if p := cmd.Arg(4); p != "" {
		if price, err = decimal.NewFromString(p); err != nil {
			return fmt.Errorf("%w: bad price %q", domain.ErrInvalidArgument, p)
		}
	}

	b, err := domain.NewBatch(args[0], qty, unit, expiry, price)
	if err != nil {
		return err
	}
	if err := a.ledger.Add(b); err != nil {
		return err
	}
	if b.ExpiredBefore(a.now()) {
		a.out.PrintHint("Heads up: that batch has already expired.")
	}
	a.out.PrintOK("Added " + b.String())
	return nil
}

func (a *cliApp) remove(cmd *domain.Command) error {
	args, err := needArgs(cmd, "remove <name> <amount>", 2)
	if err != nil {
		return err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	if err := a.ledger.RemoveQuantity(args[0], amount); err != nil {
		return err
	}
	left, err := a.ledger.TotalQuantity(args[0])
	if err != nil {
		return err
	}
	a.out.PrintOK(fmt.Sprintf("Removed %g of %s, %g left.", amount, args[0], left))
	return nil
}

func (a *cliApp) purge() {
	removed := a.ledger.PurgeExpired(a.now())
	if len(removed) == 0 {
		a.out.PrintOK("Nothing has expired.")
		return
	}
	a.out.PrintOK(fmt.Sprintf("Threw out %d expired %s:", len(removed), plural(len(removed), "batch", "batches")))
	for _, b := range removed {
		a.out.PrintResult(b.String())
	}
}

func (a *cliApp) expired(cmd *domain.Command) error {
	date, err := a.dateArg(cmd)
	if err != nil {
		return err
	}
	batches := a.ledger.ExpiredBefore(date)
	if len(batches) == 0 {
		a.out.PrintOK("Nothing expires before " + date.Format(domain.DateLayout) + ".")
		return nil
	}
	a.out.PrintHeading("Expired before " + date.Format(domain.DateLayout) + ":")
	for _, b := range batches {
		a.out.PrintResult(b.String())
	}
	return nil
}

func (a *cliApp) value(cmd *domain.Command) error {
	date, err := a.dateArg(cmd)
	if err != nil {
		return err
	}
	v := a.ledger.ExpiredValue(date)
	a.out.PrintResult(fmt.Sprintf("Value of groceries expiring before %s: %s", date.Format(domain.DateLayout), v.StringFixed(2)))
	return nil
}

// ── Recipe commands ──────────────────────────────────────────────

func (a *cliApp) recipes() error {
	names := a.book.Names()
	if len(names) == 0 {
		a.out.PrintHint("The cookbook is empty.")
		return nil
	}
	a.out.PrintHeading("Recipes:")
	for _, name := range names {
		ok, err := a.book.CheckAvailability(name)
		if err != nil {
			return err
		}
		mark := "  "
		if ok {
			mark = "✓ "
		}
		a.out.PrintResult(mark + name)
	}
	return nil
}

func (a *cliApp) suggest() error {
	names, err := a.book.SuggestAvailable()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		a.out.PrintHint("No recipes can be prepared with current groceries.")
		return nil
	}
	a.out.PrintHeading("You can cook:")
	for _, name := range names {
		a.out.PrintResult(name)
	}
	return nil
}

func (a *cliApp) showRecipe(cmd *domain.Command) error {
	args, err := needArgs(cmd, "recipe <name>", 1)
	if err != nil {
		return err
	}
	r, err := a.book.GetRecipe(args[0])
	if err != nil {
		return err
	}
	a.out.PrintBlock(r.String())
	return nil
}

func (a *cliApp) check(cmd *domain.Command) error {
	args, err := needArgs(cmd, "check <name>", 1)
	if err != nil {
		return err
	}
	ok, err := a.book.CheckAvailability(args[0])
	if err != nil {
		return err
	}
	if ok {
		a.out.PrintOK(fmt.Sprintf("You have everything for %s.", args[0]))
	} else {
		a.out.PrintHint(fmt.Sprintf("Something is missing for %s.", args[0]))
	}
	return nil
}

func (a *cliApp) cook(cmd *domain.Command) error {
	args, err := needArgs(cmd, "cook <name>", 1)
	if err != nil {
		return err
	}
	if err := a.book.Prepare(args[0]); err != nil {
		return err
	}
	a.out.PrintOK(fmt.Sprintf("%s prepared. Ingredients taken from the pantry.", args[0]))
	return nil
}

func (a *cliApp) scale(cmd *domain.Command) error {
	args, err := needArgs(cmd, "scale <name> <portions>", 2)
	if err != nil {
		return err
	}
	portions, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	if err := a.book.Scale(args[0], portions); err != nil {
		return err
	}
	a.out.PrintOK(fmt.Sprintf("%s now serves %g.", args[0], portions))
	return nil
}

func (a *cliApp) showHelp() {
	a.out.PrintHeading("Pantry:")
	a.out.PrintResult("  list                                  Show every grocery")
	a.out.PrintResult("  show <name>                           Show the batches of one grocery")
	a.out.PrintResult("  add <name> <qty> <unit> <date> [price] Add a batch (units: g, kg, l, pcs)")
	a.out.PrintResult("  remove <name> <amount>                Use up an amount, oldest first")
	a.out.PrintResult("  expired [date]                        List batches expired before a date")
	a.out.PrintResult("  value [date]                          Value of batches expired before a date")
	a.out.PrintResult("  purge                                 Throw out everything expired")
	a.out.Println("")
	a.out.PrintHeading("Recipes:")
	a.out.PrintResult("  recipes                               List recipes (✓ = can cook now)")
	a.out.PrintResult("  suggest                               Recipes you can cook now")
	a.out.PrintResult("  recipe <name>                         Show a recipe")
	a.out.PrintResult("  check <name>                          Check a recipe's ingredients")
	a.out.PrintResult("  cook <name>                           Cook a recipe, using its ingredients")
	a.out.PrintResult("  scale <name> <portions>               Change how many a recipe serves")
	a.out.Println("")
	a.out.PrintHint("Quote names with spaces: show \"olive oil\". Dates are YYYY-MM-DD.")
	a.out.PrintHint(fmt.Sprintf("The status bar warns about batches expiring within %d days.", int(a.window.Hours()/24)))
}

// ── Argument helpers ─────────────────────────────────────────────

func needArgs(cmd *domain.Command, usage string, n int) ([]string, error) {
	if len(cmd.Args) < n {
		return nil, fmt.Errorf("%w: usage: %s", domain.ErrInvalidArgument, usage)
	}
	return cmd.Args, nil
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidArgument, s)
	}
	return v, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", domain.ErrInvalidArgument, s)
	}
	return t, nil
}

// dateArg reads an optional date argument, defaulting to today.
func (a *cliApp) dateArg(cmd *domain.Command) (time.Time, error) {
	if s := cmd.Arg(0); s != "" {
		return parseDate(s)
	}
	return a.now(), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
