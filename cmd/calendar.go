package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xrendezvous/ConnectiveApp/colors"
	"github.com/xrendezvous/ConnectiveApp/server"
	"github.com/xrendezvous/ConnectiveApp/server/contactbook"
	"github.com/xrendezvous/ConnectiveApp/server/models"
)

var weekdayHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

var (
	yearArg            int
	monthArg           int
	usernameArg        string
	calendarConfigFile string

	now = time.Now

	openDatabase = func(configFile string, devMode bool) error {
		config, err := loadServerConfig(configFile, devMode)
		if err != nil {
			return err
		}
		return server.OpenDatabase(config.Database, devMode)
	}
)

func init() {
	rootCmd.AddCommand(createCalendarCmd())
}

func createCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print a month, Monday first, with today highlighted",
		Long: `Print a month, Monday first, with today highlighted. With --user the
birthdays of the user's contacts are marked & listed under the month.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalendar(cmd)
		},
	}

	cmd.Flags().IntVarP(&yearArg, "year", "y", 0, "year to print (defaults to the current year)")
	cmd.Flags().IntVarP(&monthArg, "month", "m", 0, "month to print, 1-12 (defaults to the current month)")
	cmd.Flags().StringVarP(&usernameArg, "user", "u", "", "username whose contacts' birthdays are shown")
	cmd.Flags().StringVar(&calendarConfigFile, "sconfig", "", "server config, used to reach the database with --user")

	return cmd
}

func runCalendar(cmd *cobra.Command) error {
	today := now()
	yearParam, monthParam := strconv.Itoa(today.Year()), strconv.Itoa(int(today.Month()))
	if yearArg != 0 {
		yearParam = strconv.Itoa(yearArg)
	}
	if monthArg != 0 {
		monthParam = strconv.Itoa(monthArg)
	}

	year, month := contactbook.ResolveYearMonth(yearParam, monthParam, today)
	if strconv.Itoa(year) != yearParam || strconv.Itoa(int(month)) != monthParam {
		cmd.Printf("%s invalid --year/--month, showing the current month\n", warningLabel)
	}

	var owner uint
	contacts := []models.Contact{}

	if usernameArg != "" {
		err := openDatabase(calendarConfigFile, isDevEnv)
		if err != nil {
			return err
		}

		user, err := models.FindUserBy("username", usernameArg)
		if err != nil {
			return formattedError("unable to find user %q: %v", usernameArg, err)
		}

		contacts, err = models.FetchContacts(user.ID)
		if err != nil {
			return err
		}
		owner = user.ID
	}

	grid := contactbook.Build(owner, year, month, today, contacts)
	printCalendar(cmd.OutOrStdout(), grid)

	return nil
}

func printCalendar(out io.Writer, grid contactbook.CalendarGrid) {
	header := fmt.Sprintf("%s %d", grid.Month, grid.Year)
	width := len(weekdayHeader)*3 - 1
	fmt.Fprintf(out, "%s%s\n", strings.Repeat(" ", (width-len(header))/2), header)
	fmt.Fprintln(out, strings.Join(weekdayHeader, " "))

	for _, week := range grid.Weeks {
		cells := make([]string, len(week))
		for i, day := range week {
			cells[i] = calendarCell(grid, day)
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, " "), " "))
	}

	if len(grid.Birthdays) == 0 {
		return
	}

	fmt.Fprintln(out, "\nBirthdays:")
	for _, contact := range grid.Birthdays {
		birthdate := contact.Birthdate.Time
		fmt.Fprintf(out, "  %2d %s  %s (turns %d)\n",
			birthdate.Day(),
			birthdate.Month().String()[:3],
			contact.FullName(),
			grid.Year-birthdate.Year())
	}
}

func calendarCell(grid contactbook.CalendarGrid, day int) string {
	if day == 0 {
		return "  "
	}

	cell := fmt.Sprintf("%2d", day)
	switch {
	case grid.IsCurrentMonth && day == grid.Today:
		return colors.Highlight(cell)
	case len(grid.BirthdayDays[day]) > 0:
		return colors.Birthday(cell)
	default:
		return cell
	}
}
