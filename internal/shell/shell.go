// Package shell runs the line-oriented inventory menu.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/rogerio-castellano/inventory-cli/internal/inventory"
	"github.com/rogerio-castellano/inventory-cli/internal/models"
	"go.uber.org/zap"
)

const clearSequence = "\033[H\033[2J"

// Inventory is what the shell needs from the inventory service.
type Inventory interface {
	Product(ctx context.Context, id int) (models.Product, error)
	Reconcile(ctx context.Context, p models.Product) (inventory.Outcome, error)
	BackupFile(ctx context.Context, path string) (int, error)
	Today() time.Time
}

type state int

const (
	stateRunning state = iota
	stateDispatching
	stateTerminated
)

// Config is built once at startup and handed to New.
type Config struct {
	Menu        Menu
	BackupPath  string
	ClearScreen bool
}

type Shell struct {
	inv    Inventory
	in     *bufio.Reader
	out    io.Writer
	cfg    Config
	log    *zap.Logger
	styles styles
	state  state
	notice string
}

type styles struct {
	title   lipgloss.Style
	errorf  lipgloss.Style
	success lipgloss.Style
	label   lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		errorf:  r.NewStyle().Foreground(lipgloss.Color("9")),
		success: r.NewStyle().Foreground(lipgloss.Color("10")),
		label:   r.NewStyle().Bold(true),
	}
}

func New(inv Inventory, in io.Reader, out io.Writer, cfg Config, log *zap.Logger) *Shell {
	if cfg.Menu == nil {
		cfg.Menu = DefaultMenu()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ClearScreen && !isTerminal(out) {
		cfg.ClearScreen = false
	}
	return &Shell{
		inv:    inv,
		in:     bufio.NewReader(in),
		out:    out,
		cfg:    cfg,
		log:    log,
		styles: newStyles(out),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run shows the menu and dispatches actions until the user quits or input ends.
// It returns an error only for failures the menu cannot recover from.
func (s *Shell) Run(ctx context.Context) error {
	s.state = stateRunning
	for s.state != stateTerminated {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.clear()
		s.showMenu()

		line, err := s.prompt("Action: ")
		if errors.Is(err, io.EOF) {
			s.state = stateTerminated
			break
		}
		if err != nil {
			return err
		}

		choice := strings.ToLower(strings.TrimSpace(line))
		action, ok := s.cfg.Menu.Lookup(choice)
		if !ok {
			s.notice = fmt.Sprintf("%q is not a valid action, please pick one of the keys above.", choice)
			continue
		}
		if action == ActionQuit {
			s.state = stateTerminated
			break
		}

		s.state = stateDispatching
		s.clear()
		if err := s.dispatch(ctx, action); err != nil {
			return err
		}
		s.state = stateRunning
	}
	Farewell(s.out)
	return nil
}

func (s *Shell) dispatch(ctx context.Context, action Action) error {
	s.log.Debug("dispatching action", zap.Int("action", int(action)))
	switch action {
	case ActionView:
		return s.viewDetails(ctx)
	case ActionAdd:
		return s.addProduct(ctx)
	case ActionBackup:
		return s.backup(ctx)
	default:
		return fmt.Errorf("no handler for action %d", action)
	}
}

func (s *Shell) showMenu() {
	fmt.Fprintln(s.out, s.styles.title.Render("STORE INVENTORY"))
	fmt.Fprintf(s.out, "Enter '%s' to quit\n", QuitKey)
	for _, item := range s.cfg.Menu {
		fmt.Fprintf(s.out, "%s) %s\n", item.Key, item.Description)
	}
	if s.notice != "" {
		s.errorLine(s.notice)
		s.notice = ""
	}
}

// Farewell prints the closing banner. It is also used on the error exit path.
func Farewell(out io.Writer) {
	fmt.Fprintln(out, "\nThank you for using the store inventory. Goodbye!")
}

func (s *Shell) clear() {
	if s.cfg.ClearScreen {
		fmt.Fprint(s.out, clearSequence)
	}
}

func (s *Shell) errorLine(msg string) {
	fmt.Fprintln(s.out, s.styles.errorf.Render("Error: "+msg))
}

func (s *Shell) successLine(msg string) {
	fmt.Fprintln(s.out, s.styles.success.Render(msg))
}

// prompt writes label and reads one line without its line ending.
// A final line without a newline is returned before io.EOF.
func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) pause() error {
	_, err := s.prompt("\nPress Enter to return to the menu...")
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
