package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lending-library/library"
)

func parseID(kind, value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID: %s", kind, value)
	}
	return id, nil
}

func newBookCommand(a *app) *cobra.Command {
	bookCmd := &cobra.Command{
		Use:   "book",
		Short: "Manage the catalog and circulation",
	}

	bookCmd.AddCommand(&cobra.Command{
		Use:   "add <title> <author>",
		Short: "Add an available book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(mgr *library.LibraryManager) error {
				mgr.AddBook(args[0], args[1])
				printNotices(cmd.OutOrStdout(), mgr)
				return nil
			})
		},
	})

	bookCmd.AddCommand(&cobra.Command{
		Use:   "remove <title>",
		Short: "Remove every book with this title (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(mgr *library.LibraryManager) error {
				mgr.RemoveBook(args[0])
				printNotices(cmd.OutOrStdout(), mgr)
				return nil
			})
		},
	})

	bookCmd.AddCommand(&cobra.Command{
		Use:   "search <title>",
		Short: "Find a book by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(mgr *library.LibraryManager) error {
				out := cmd.OutOrStdout()
				if it, ok := mgr.SearchBook(args[0]); ok {
					fmt.Fprintf(out, "Book Found: \n%s\n", it)
				} else {
					fmt.Fprintln(out, "Book not found.")
				}
				return nil
			})
		},
	})

	var sorted bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List books in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(mgr *library.LibraryManager) error {
				books := mgr.ListBooks()
				if sorted {
					books = library.SortedByTitle(books)
				}
				printBooks(cmd.OutOrStdout(), mgr, books)
				return nil
			})
		},
	}
	listCmd.Flags().BoolVar(&sorted, "sorted", false, "Sort by title instead of catalog order")
	bookCmd.AddCommand(listCmd)

	bookCmd.AddCommand(&cobra.Command{
		Use:   "lend <title> <member-id>",
		Short: "Lend a book, or join its waitlist when it is out",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID("member", args[1])
			if err != nil {
				return err
			}
			return a.run(func(mgr *library.LibraryManager) error {
				mgr.LendBook(args[0], memberID)
				printNotices(cmd.OutOrStdout(), mgr)
				return nil
			})
		},
	})

	bookCmd.AddCommand(&cobra.Command{
		Use:   "return <title>",
		Short: "Return a book; the next waitlisted member receives it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(mgr *library.LibraryManager) error {
				mgr.ReturnBook(args[0])
				printNotices(cmd.OutOrStdout(), mgr)
				return nil
			})
		},
	})

	bookCmd.AddCommand(&cobra.Command{
		Use:   "waitlist <title>",
		Short: "Show who is waiting for a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(mgr *library.LibraryManager) error {
				out := cmd.OutOrStdout()
				ids, ok := mgr.Waitlist(args[0])
				if !ok {
					fmt.Fprintln(out, "Book not found.")
					return nil
				}
				fmt.Fprintf(out, "Waitlist for '%s': %s\n", args[0], mgr.WaitlistNames(ids))
				return nil
			})
		},
	})

	bookCmd.AddCommand(&cobra.Command{
		Use:   "cancel <title> <member-id>",
		Short: "Remove a member from a book's waitlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID("member", args[1])
			if err != nil {
				return err
			}
			return a.run(func(mgr *library.LibraryManager) error {
				mgr.CancelWaitlist(args[0], memberID)
				printNotices(cmd.OutOrStdout(), mgr)
				return nil
			})
		},
	})

	return bookCmd
}

func newMemberCommand(a *app) *cobra.Command {
	memberCmd := &cobra.Command{
		Use:   "member",
		Short: "Manage the member roster",
	}

	memberCmd.AddCommand(&cobra.Command{
		Use:   "add <id> <name>",
		Short: "Register a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("member", args[0])
			if err != nil {
				return err
			}
			return a.run(func(mgr *library.LibraryManager) error {
				mgr.AddMember(id, args[1])
				printNotices(cmd.OutOrStdout(), mgr)
				return nil
			})
		},
	})

	memberCmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove every member with this ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("member", args[0])
			if err != nil {
				return err
			}
			return a.run(func(mgr *library.LibraryManager) error {
				mgr.RemoveMember(id)
				printNotices(cmd.OutOrStdout(), mgr)
				return nil
			})
		},
	})

	memberCmd.AddCommand(&cobra.Command{
		Use:   "search <id>",
		Short: "Find a member by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("member", args[0])
			if err != nil {
				return err
			}
			return a.run(func(mgr *library.LibraryManager) error {
				out := cmd.OutOrStdout()
				if m, ok := mgr.SearchMemberByID(id); ok {
					fmt.Fprintf(out, "Member Found: \n%s\n", m)
				} else {
					fmt.Fprintln(out, "Member not found.")
				}
				return nil
			})
		},
	})

	memberCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List members in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(mgr *library.LibraryManager) error {
				printMembers(cmd.OutOrStdout(), mgr.ListMembers())
				return nil
			})
		},
	})

	return memberCmd
}

func newConfigCommand(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			data, err := cfg.Encode()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			out := cmd.OutOrStdout()
			if a.configFound {
				fmt.Fprintf(out, "# source: %s\n", a.configSource)
			} else {
				fmt.Fprintf(out, "# source: %s (not found, using defaults)\n", a.configSource)
			}
			_, err = out.Write(data)
			return err
		},
	})
	return configCmd
}
