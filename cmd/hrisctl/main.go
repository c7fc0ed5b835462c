package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cmlabs-hris/hris-client-go/calendar"
	"github.com/cmlabs-hris/hris-client-go/hris"
	"github.com/cmlabs-hris/hris-client-go/internal/config"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	client, err := hris.New(hris.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		TokenStore: hris.NewFileTokenStore(cfg.Cache.TokenPath),
		Notifier:   hris.LogNotifier{Logger: log.Logger},
		Logger:     log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("could not build client")
	}

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	command := flag.Arg(0)
	args := flag.Args()[1:]

	if err := run(ctx, client, command, args); err != nil {
		log.Error().Err(err).Str("command", command).Msg("command failed")
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func run(ctx context.Context, client *hris.Client, command string, args []string) error {
	switch command {
	case "login":
		return runLogin(ctx, client, args)
	case "logout":
		return client.Logout(ctx)
	case "whoami":
		return runWhoami(ctx, client)
	case "checkin":
		return runCheckIn(ctx, client, args)
	case "checkout":
		return runCheckOut(ctx, client, args)
	case "calendar":
		return runCalendar(ctx, client, args)
	case "leaves":
		return runLeaves(ctx, client)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: hrisctl <command> [arguments]

commands:
  login <email> <password>     sign in and store the session token
  logout                       sign out and clear the stored session
  whoami                       show the signed-in user
  checkin <lat> <lng>          clock in at the given coordinates
  checkout <attendance-id>     clock out an open attendance record
  calendar [YYYY-MM]           show the month's attendance calendar
  leaves                       list leave requests`)
}

func runLogin(ctx context.Context, client *hris.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <email> <password>")
	}
	result, err := client.Login(ctx, hris.Credentials{Email: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	if result.Pending {
		fmt.Println(result.Message)
		return nil
	}
	fmt.Printf("signed in as %s (%s)\n", result.User.Name, result.User.Role)
	return nil
}

func runWhoami(ctx context.Context, client *hris.Client) error {
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s employee=%s\n", user.Name, user.Email, user.Role, user.EmployeeID)
	return nil
}

func runCheckIn(ctx context.Context, client *hris.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: checkin <lat> <lng>")
	}
	var lat, lng float64
	if _, err := fmt.Sscanf(args[0], "%f", &lat); err != nil {
		return fmt.Errorf("invalid latitude %q", args[0])
	}
	if _, err := fmt.Sscanf(args[1], "%f", &lng); err != nil {
		return fmt.Errorf("invalid longitude %q", args[1])
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	record, err := client.CheckIn(ctx, user.ID, lat, lng)
	if err != nil {
		return err
	}
	fmt.Printf("checked in at %s (record %s, status %s)\n",
		record.CheckIn.Format("15:04"), record.ID, record.Status)
	return nil
}

func runCheckOut(ctx context.Context, client *hris.Client, args []string) error {
	var attendanceID string
	if len(args) == 1 {
		attendanceID = args[0]
	} else {
		// No ID given: check out today's open record.
		user, err := client.CurrentUser(ctx)
		if err != nil {
			return err
		}
		record, err := client.AttendanceOn(ctx, user.ID, time.Now())
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("no attendance record for today")
		}
		attendanceID = record.ID
	}

	record, err := client.CheckOut(ctx, attendanceID)
	if err != nil {
		return err
	}
	fmt.Printf("checked out at %s\n", record.CheckOut.Format("15:04"))
	return nil
}

func runCalendar(ctx context.Context, client *hris.Client, args []string) error {
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return err
	}

	month := time.Now()
	if len(args) == 1 {
		month, err = time.ParseInLocation("2006-01", args[0], time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q, want YYYY-MM", args[0])
		}
	}

	sheet, err := client.CalendarSheet(ctx, user.ID)
	if err != nil {
		return err
	}

	today := time.Now()
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	for d := first; d.Month() == month.Month(); d = d.AddDate(0, 0, 1) {
		day := sheet.StatusOf(d, today)
		line := fmt.Sprintf("%s %-10s", day.Key, day.Status)
		if day.CheckIn != nil {
			line += " in " + day.CheckIn.Format("15:04")
		}
		if day.CheckOut != nil {
			line += " out " + day.CheckOut.Format("15:04")
		}
		if day.Remark != "" {
			line += " (" + day.Remark + ")"
		}
		fmt.Println(line)
	}

	stats, err := client.AttendanceStatsFor(ctx, user.ID)
	if err != nil {
		return err
	}
	fmt.Printf("\npresent %d  late %d  absent %d  leave %d  rate %.0f%%\n",
		stats.PresentDays, stats.LateDays, stats.AbsentDays, stats.LeaveDays,
		stats.AttendanceRate*100)
	return nil
}

func runLeaves(ctx context.Context, client *hris.Client) error {
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	leaves, err := client.LeavesByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(leaves) == 0 {
		fmt.Println("no leave requests")
		return nil
	}
	for _, leave := range leaves {
		fmt.Printf("%s  %s  %s to %s  %s  %s\n",
			leave.ID, leave.Type,
			calendar.KeyOf(leave.StartDate), calendar.KeyOf(leave.EndDate),
			leave.Status, leave.Reason)
	}
	return nil
}
