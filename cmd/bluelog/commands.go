package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bluelog/core/internal/config"
	"github.com/bluelog/core/internal/database"
	"github.com/bluelog/core/internal/modules/auth/user"
	"github.com/bluelog/core/internal/modules/content/category"
	"github.com/bluelog/core/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gorm.io/gorm"
)

func openDatabase(configPath string) (*config.AppConfig, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg, zap.NewNop(), false)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newInitDBCmd(configPath *string) *cobra.Command {
	var drop bool
	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Initialize the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := openDatabase(*configPath)
			if err != nil {
				return err
			}
			defer database.Close(db)

			out := cmd.OutOrStdout()
			if drop {
				p := newPrompter(cmd.InOrStdin(), out)
				ok, err := p.confirm("This operation will delete the database, do you want to continue?")
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("aborted")
				}
				if err := database.DropAll(db); err != nil {
					return err
				}
				fmt.Fprintln(out, "Drop tables.")
			}
			if err := database.CreateAll(db); err != nil {
				return err
			}
			fmt.Fprintln(out, "Initialized database.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "Create after drop.")
	return cmd
}

func newForgeCmd(configPath *string) *cobra.Command {
	opts := seed.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "forge",
		Short: "Generate fake data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := openDatabase(*configPath)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Reset(db); err != nil {
				return err
			}
			opts.AdminEmail = cfg.AdminEmail
			opts.BaseURL = cfg.BaseURL
			return seed.New(db, opts, cmd.OutOrStdout()).Run()
		},
	}
	cmd.Flags().IntVar(&opts.Categories, "category", opts.Categories, "Quantity of categories, default is 10.")
	cmd.Flags().IntVar(&opts.Posts, "post", opts.Posts, "Quantity of posts, default is 50.")
	cmd.Flags().IntVar(&opts.Comments, "comment", opts.Comments, "Quantity of comments, default is 500.")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "Random seed, 0 picks one.")
	return cmd
}

func newInitCmd(configPath *string) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Building Bluelog, just for you.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			p := newPrompter(cmd.InOrStdin(), out)
			var err error
			if username == "" {
				if username, err = p.line("Username"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = p.newPassword("Password"); err != nil {
					return err
				}
			}
			if username == "" || password == "" {
				return errors.New("username and password are required")
			}

			_, db, err := openDatabase(*configPath)
			if err != nil {
				return err
			}
			defer database.Close(db)

			fmt.Fprintln(out, "Initializing the database...")
			if err := database.CreateAll(db); err != nil {
				return err
			}

			_, created, err := user.NewService(db).Upsert(username, password, user.DefaultProfile)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintln(out, "Creating the temporary administrator account...")
			} else {
				fmt.Fprintln(out, "The administrator already exists, updating...")
			}

			made, err := category.NewService(db).EnsureDefault()
			if err != nil {
				return err
			}
			if made {
				fmt.Fprintln(out, "Creating the default category...")
			}
			fmt.Fprintln(out, "Done.")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "The username used to login.")
	cmd.Flags().StringVar(&password, "password", "", "The password used to login.")
	return cmd
}

// prompter reads answers from in. Passwords are read without echo when in
// is a terminal.
type prompter struct {
	in  io.Reader
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, r: bufio.NewReader(in), out: out}
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	s, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) hidden(label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.line(label)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// newPassword asks twice and requires both answers to match.
func (p *prompter) newPassword(label string) (string, error) {
	first, err := p.hidden(label)
	if err != nil {
		return "", err
	}
	second, err := p.hidden("Repeat for confirmation")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("the two entered values do not match")
	}
	return first, nil
}

func (p *prompter) confirm(question string) (bool, error) {
	answer, err := p.line(question + " [y/N]")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
