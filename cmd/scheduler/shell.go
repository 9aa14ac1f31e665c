package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/appointment-scheduler/internal/createappointment"
	"github.com/wolfman30/appointment-scheduler/internal/scheduling"
	"github.com/wolfman30/appointment-scheduler/internal/ui"
)

const helpText = `commands:
  providers          list providers
  provider <id>      select a provider
  date <yyyy-mm-dd>  pick a date (no argument dismisses the picker)
  picker             toggle the date picker
  slots              show the hours of the selected day
  hour <h>           choose an hour
  book               create the appointment
  back               go back
  help               show this help
  quit               exit`

// terminalNavigator records routes and announces screen changes. loc is
// the zone bookings are made in; nil means local time.
type terminalNavigator struct {
	stack *ui.Stack
	out   io.Writer
	loc   *time.Location
	mu    sync.Mutex
}

func (n *terminalNavigator) Navigate(screen string, params ui.Params) {
	n.stack.Navigate(screen, params)
	n.mu.Lock()
	defer n.mu.Unlock()
	if screen == ui.ScreenAppointmentCreated {
		if ms, ok := params["date"].(int64); ok {
			loc := n.loc
			if loc == nil {
				loc = time.Local
			}
			fmt.Fprintf(n.out, "Appointment created for %s\n", time.UnixMilli(ms).In(loc).Format(scheduling.BookingDateLayout))
			return
		}
	}
	fmt.Fprintf(n.out, "-> %s\n", screen)
}

func (n *terminalNavigator) GoBack() {
	n.stack.GoBack()
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "<- %s\n", n.stack.Current().Screen)
}

type terminalAlerter struct {
	out io.Writer
	mu  sync.Mutex
}

func (a *terminalAlerter) Alert(title, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.out, "!! %s: %s\n", title, message)
}

type shell struct {
	screen *createappointment.Screen
	stack  *ui.Stack
	out    io.Writer
}

func newShell(screen *createappointment.Screen, stack *ui.Stack, out io.Writer) *shell {
	return &shell{screen: screen, stack: stack, out: out}
}

var errQuit = errors.New("quit")

// Run activates the screen and executes commands read from in until EOF,
// quit or ctx is done.
func (s *shell) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.screen.Activate(ctx)
	s.screen.Wait()
	s.renderHeader()
	s.renderSlots()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(s.out, "> ")
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if err := s.exec(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		}
	}
}

func (s *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "quit", "exit":
		return errQuit
	case "providers":
		s.renderHeader()
	case "provider":
		if len(args) != 1 {
			return errors.New("usage: provider <id>")
		}
		s.screen.SelectProvider(ctx, args[0])
		s.screen.Wait()
		s.renderSlots()
	case "date":
		if len(args) == 0 {
			s.screen.ChangeDate(ctx, nil)
			return nil
		}
		d, err := scheduling.ParseDate(args[0])
		if err != nil {
			return fmt.Errorf("date must be yyyy-mm-dd: %w", err)
		}
		s.screen.ChangeDate(ctx, &d)
		s.screen.Wait()
		s.renderSlots()
	case "picker":
		s.screen.ToggleDatePicker()
		if s.screen.View().DatePickerVisible {
			fmt.Fprintln(s.out, "date picker open; use: date <yyyy-mm-dd>")
		} else {
			fmt.Fprintln(s.out, "date picker closed")
		}
	case "slots":
		s.screen.Wait()
		s.renderSlots()
	case "hour":
		if len(args) != 1 {
			return errors.New("usage: hour <h>")
		}
		hour, err := strconv.Atoi(strings.TrimSuffix(args[0], ":00"))
		if err != nil {
			return fmt.Errorf("hour must be a number: %w", err)
		}
		if err := s.screen.SelectHour(hour); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "selected %s\n", scheduling.FormatHour(hour))
	case "book":
		// Failures were already shown by the alerter.
		if err := s.screen.Submit(ctx); err != nil && !errors.Is(err, scheduling.ErrBookingFailed) {
			return err
		}
	case "back":
		if s.stack.Depth() <= 1 {
			return errQuit
		}
		s.screen.NavigateBack()
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

func (s *shell) renderHeader() {
	v := s.screen.View()
	fmt.Fprintln(s.out, v.Title)
	if len(v.Providers) == 0 {
		fmt.Fprintln(s.out, "  (no providers)")
	}
	for _, p := range v.Providers {
		mark := " "
		if p.Selected {
			mark = "*"
		}
		fmt.Fprintf(s.out, " %s %s  %s\n", mark, p.ID, p.Name)
	}
}

func (s *shell) renderSlots() {
	v := s.screen.View()
	provider := v.SelectedProvider
	if provider == "" {
		provider = "(none)"
	}
	fmt.Fprintf(s.out, "provider %s, date %s\n", provider, v.Date)
	fmt.Fprintf(s.out, "  Morning:   %s\n", formatSlots(v.Morning))
	fmt.Fprintf(s.out, "  Afternoon: %s\n", formatSlots(v.Afternoon))
}

// formatSlots renders unavailable hours in parentheses and the chosen hour
// in brackets.
func formatSlots(items []createappointment.SlotItem) string {
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		switch {
		case item.Selected:
			parts = append(parts, "["+item.HourFormatted+"]")
		case !item.Enabled:
			parts = append(parts, "("+item.HourFormatted+")")
		default:
			parts = append(parts, item.HourFormatted)
		}
	}
	return strings.Join(parts, " ")
}
