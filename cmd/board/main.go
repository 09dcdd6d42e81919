// Command board prints the lead pipeline as kanban columns and moves leads
// between stages through the API, with the same optimistic update and
// rollback the web board uses.
//
//	board list
//	board move <leadID> <stage>
//	board move-over <leadID> <otherLeadID>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/solarepc/epc-api/internal/board"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/mapper"
	"go.uber.org/zap"
)

const defaultAPIURL = "http://localhost:8080"

const usage = "usage: board [list|move <leadID> <stage>|move-over <leadID> <otherLeadID>]"

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "board: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	apiURL := getenv("BOARD_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	var opts []board.Option
	if token := getenv("BOARD_API_TOKEN"); token != "" {
		opts = append(opts, board.WithToken(token))
	}

	notifier := board.NotifierFunc(func(n board.Notification) {
		fmt.Fprintf(stderr, "%s: %s\n", n.Title, n.Message)
	})
	b := board.NewBoard(board.NewClient(apiURL, opts...), board.NewQueryCache(), notifier, zap.NewNop())
	if err := b.Load(ctx); err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	switch args[0] {
	case "list":
		printColumns(stdout, b)
		return nil

	case "move", "move-over":
		if len(args) != 3 {
			return errors.New(usage)
		}
		leadID, err := parseLeadID(args[1])
		if err != nil {
			return err
		}

		drop := board.DropTarget{Column: domain.LeadStage(args[2])}
		if args[0] == "move-over" {
			overID, err := parseLeadID(args[2])
			if err != nil {
				return err
			}
			drop = board.DropTarget{OverLeadID: overID}
		}

		stage, ok := b.ResolveTarget(drop)
		if !ok {
			return fmt.Errorf("%q is not a stage or a lead on the board", args[2])
		}
		if err := b.MoveLead(ctx, leadID, drop); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Lead %d moved to %s\n", leadID, stage)
		return nil

	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func parseLeadID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid lead ID %q", raw)
	}
	return uint(id), nil
}

func printColumns(w io.Writer, b *board.Board) {
	columns := b.Columns()
	for _, stage := range domain.LeadStages {
		leads := columns[stage]
		total := decimal.Zero
		for _, lead := range leads {
			if v, err := decimal.NewFromString(lead.EstimatedValue); err == nil {
				total = total.Add(v)
			}
		}
		fmt.Fprintf(w, "%s (%d, %s)\n", stage, len(leads), mapper.Money(total))
		for _, lead := range leads {
			fmt.Fprintf(w, "  #%d %s %s\n", lead.ID, lead.CompanyName, lead.EstimatedValue)
		}
	}
}
