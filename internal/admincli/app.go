// Package admincli implements the operator commands shipped in cmd/cli.
// The only command today bootstraps an admin account, since the HTTP API
// can create readers but never admins.
package admincli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/contactform/internal/server/models"
)

const CommandCreateAdmin = "create-admin"

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// AdminCreator is satisfied by *services.UserService.
type AdminCreator interface {
	CreateAdmin(ctx context.Context, userName, password string) (*models.User, error)
}

type App struct {
	creator AdminCreator
	in      *bufio.Reader
	out     io.Writer
	fd      int
}

// NewApp returns an App reading answers from in, passwords from the
// terminal behind fd, and writing prompts to out.
func NewApp(c AdminCreator, in io.Reader, out io.Writer, fd int) *App {
	return &App{creator: c, in: bufio.NewReader(in), out: out, fd: fd}
}

// SplitArgs separates the flags that precede the command name from the
// command and its own arguments. cmd is empty when no command is given.
func SplitArgs(args []string) (global []string, cmd string, rest []string) {
	for i, a := range args {
		if a == CommandCreateAdmin || a == "help" {
			return args[:i], a, args[i+1:]
		}
	}
	return args, "", nil
}

func (a *App) Usage() {
	fmt.Fprintln(a.out, "usage: cli [server flags] create-admin [-u username]")
}

// Run executes cmd with args.
func (a *App) Run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case CommandCreateAdmin:
		return a.createAdmin(ctx, args)
	case "help", "":
		a.Usage()
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (a *App) createAdmin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet(CommandCreateAdmin, flag.ContinueOnError)
	fs.SetOutput(a.out)
	userName := fs.String("u", "", "admin username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *userName == "" {
		name, err := getSimpleText(a.in, "Username", a.out)
		if err != nil {
			return fmt.Errorf("read username: %w", err)
		}
		*userName = name
	}

	pw, err := getPassword(a.fd, "Enter password: ", a.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer wipe(pw)

	confirm, err := getPassword(a.fd, "Repeat password: ", a.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer wipe(confirm)

	if !bytes.Equal(pw, confirm) {
		return ErrPasswordMismatch
	}

	u, err := a.creator.CreateAdmin(ctx, *userName, string(pw))
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Fprintf(a.out, "Admin %q created with id %d\n", u.UserName, u.ID)
	return nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
