// Package tracker parses interactive commands and routes them to the session
// and statistics engines.
package tracker

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thebtf/tally/internal/stats"
	"github.com/thebtf/tally/pkg/models"
)

// Kind identifies a parsed command.
type Kind int

const (
	CmdHelp Kind = iota
	CmdSwitch
	CmdStart
	CmdPause
	CmdIncrement
	CmdSetPrice
	CmdList
	CmdStatus
	CmdStats
	CmdStatsDay
	CmdStatsMonth
	CmdHistory
	CmdExit
)

var kindNames = map[Kind]string{
	CmdHelp:       "help",
	CmdSwitch:     "switch",
	CmdStart:      "start",
	CmdPause:      "pause",
	CmdIncrement:  "increment",
	CmdSetPrice:   "set-price",
	CmdList:       "list",
	CmdStatus:     "status",
	CmdStats:      "stats",
	CmdStatsDay:   "stats day",
	CmdStatsMonth: "stats month",
	CmdHistory:    "history",
	CmdExit:       "exit",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Command is one parsed input line.
type Command struct {
	Kind  Kind
	Task  string  // switch, set-price
	Count int64   // increment
	Price float64 // set-price
	Date  string  // stats day/month argument, empty for the current period
	Limit int     // history
}

// Parse turns an input line into a Command. Keywords are case-insensitive,
// task names keep their case. An empty line increments by one.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Kind: CmdIncrement, Count: 1}, nil
	}

	keyword := strings.ToLower(fields[0])
	args := fields[1:]

	if n, err := strconv.ParseInt(keyword, 10, 64); err == nil {
		if len(args) > 0 {
			return Command{}, usage("<number>")
		}
		return Command{Kind: CmdIncrement, Count: n}, nil
	}
	if isInteger(keyword) {
		return Command{}, fmt.Errorf("%w: %s", models.ErrInvalidCount, fields[0])
	}

	switch keyword {
	case "help", "?":
		return Command{Kind: CmdHelp}, nil

	case "switch":
		if len(args) != 1 {
			return Command{}, usage("switch <task>")
		}
		return Command{Kind: CmdSwitch, Task: args[0]}, nil

	case "start", "s":
		return Command{Kind: CmdStart}, nil

	case "pause", "p":
		return Command{Kind: CmdPause}, nil

	case "set-price":
		if len(args) != 2 {
			return Command{}, usage("set-price <task> <price>")
		}
		price, err := strconv.ParseFloat(args[1], 64)
		if err != nil || !models.ValidPrice(price) {
			return Command{}, fmt.Errorf("%w: %q", models.ErrInvalidPrice, args[1])
		}
		return Command{Kind: CmdSetPrice, Task: args[0], Price: price}, nil

	case "list":
		return Command{Kind: CmdList}, nil

	case "status":
		return Command{Kind: CmdStatus}, nil

	case "stats":
		return parseStats(args)

	case "history":
		switch len(args) {
		case 0:
			return Command{Kind: CmdHistory}, nil
		case 1:
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return Command{}, usage("history [n]")
			}
			return Command{Kind: CmdHistory, Limit: n}, nil
		default:
			return Command{}, usage("history [n]")
		}

	case "exit", "quit":
		return Command{Kind: CmdExit}, nil
	}

	return Command{}, fmt.Errorf("%w: %s (try 'help')", models.ErrUnknownCommand, fields[0])
}

func parseStats(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Kind: CmdStats}, nil
	}
	if len(args) > 2 {
		return Command{}, usage("stats [day [YYYY-MM-DD] | month [YYYY-MM]]")
	}

	var date string
	if len(args) == 2 {
		date = args[1]
	}

	switch strings.ToLower(args[0]) {
	case "day":
		if date != "" {
			if _, err := stats.ParseDay(date, time.UTC); err != nil {
				return Command{}, err
			}
		}
		return Command{Kind: CmdStatsDay, Date: date}, nil
	case "month":
		if date != "" {
			if _, _, err := stats.ParseMonth(date); err != nil {
				return Command{}, err
			}
		}
		return Command{Kind: CmdStatsMonth, Date: date}, nil
	}
	return Command{}, usage("stats [day [YYYY-MM-DD] | month [YYYY-MM]]")
}

// isInteger reports whether s is an optionally signed run of digits,
// regardless of whether it fits in an int64.
func isInteger(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func usage(form string) error {
	return fmt.Errorf("%w: %s", models.ErrUsage, form)
}
