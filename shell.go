package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lending-library/library"
)

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive := false
			if f, ok := cmd.InOrStdin().(*os.File); ok {
				interactive = term.IsTerminal(int(f.Fd()))
			}
			return a.run(func(mgr *library.LibraryManager) error {
				runShell(cmd.InOrStdin(), cmd.OutOrStdout(), mgr, interactive)
				return nil
			})
		},
	}
}

// shell reads one command per line and then one line per field. Prompts are
// printed only for a terminal so scripted input produces clean output.
type shell struct {
	sc          *bufio.Scanner
	out         io.Writer
	mgr         *library.LibraryManager
	interactive bool
}

func runShell(in io.Reader, out io.Writer, mgr *library.LibraryManager, interactive bool) {
	sh := &shell{sc: bufio.NewScanner(in), out: out, mgr: mgr, interactive: interactive}

	if interactive {
		fmt.Fprintln(out, "Welcome to the Library Management System!")
		fmt.Fprintln(out, "Available commands:")
		fmt.Fprintln(out, "  Books: add book, remove book, search book, list books")
		fmt.Fprintln(out, "  Members: add member, remove member, search member, list members")
		fmt.Fprintln(out, "  Circulation: lend, return, waitlist, cancel waitlist")
		fmt.Fprintln(out, "  System: exit")
	}

	for {
		sh.prompt("\n> ")
		if !sh.sc.Scan() {
			return
		}
		cmd := strings.ToLower(strings.TrimSpace(sh.sc.Text()))

		switch cmd {
		case "":
			continue
		case "add book":
			sh.addBook()
		case "remove book":
			sh.removeBook()
		case "search book":
			sh.searchBook()
		case "list books":
			printBooks(out, mgr, mgr.ListBooks())
		case "lend":
			sh.lend()
		case "return":
			sh.returnBook()
		case "waitlist":
			sh.waitlist()
		case "cancel waitlist":
			sh.cancelWaitlist()
		case "add member":
			sh.addMember()
		case "remove member":
			sh.removeMember()
		case "search member":
			sh.searchMember()
		case "list members":
			printMembers(out, mgr.ListMembers())
		case "exit", "quit":
			fmt.Fprintln(out, "Goodbye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command. Type one of the available commands listed above.")
		}
		printNotices(out, mgr)
	}
}

func (sh *shell) prompt(s string) {
	if sh.interactive {
		fmt.Fprint(sh.out, s)
	}
}

// field prompts for and reads one trimmed line.
func (sh *shell) field(label string) (string, bool) {
	sh.prompt(label + ": ")
	if !sh.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.sc.Text()), true
}

func (sh *shell) idField(label string) (int64, bool) {
	raw, ok := sh.field(label)
	if !ok {
		return 0, false
	}
	id, err := parseID("member", raw)
	if err != nil {
		fmt.Fprintln(sh.out, err)
		return 0, false
	}
	return id, true
}

func (sh *shell) addBook() {
	title, ok := sh.field("Title")
	if !ok {
		return
	}
	author, ok := sh.field("Author")
	if !ok {
		return
	}
	sh.mgr.AddBook(title, author)
}

func (sh *shell) removeBook() {
	if title, ok := sh.field("Title"); ok {
		sh.mgr.RemoveBook(title)
	}
}

func (sh *shell) searchBook() {
	title, ok := sh.field("Title")
	if !ok {
		return
	}
	if it, found := sh.mgr.SearchBook(title); found {
		fmt.Fprintf(sh.out, "Book Found: \n%s\n", it)
	} else {
		fmt.Fprintln(sh.out, "Book not found.")
	}
}

func (sh *shell) lend() {
	title, ok := sh.field("Title")
	if !ok {
		return
	}
	memberID, ok := sh.idField("Member ID")
	if !ok {
		return
	}
	sh.mgr.LendBook(title, memberID)
}

func (sh *shell) returnBook() {
	if title, ok := sh.field("Title"); ok {
		sh.mgr.ReturnBook(title)
	}
}

func (sh *shell) waitlist() {
	title, ok := sh.field("Title")
	if !ok {
		return
	}
	ids, found := sh.mgr.Waitlist(title)
	if !found {
		fmt.Fprintln(sh.out, "Book not found.")
		return
	}
	fmt.Fprintf(sh.out, "Waitlist for '%s': %s\n", title, sh.mgr.WaitlistNames(ids))
}

func (sh *shell) cancelWaitlist() {
	title, ok := sh.field("Title")
	if !ok {
		return
	}
	memberID, ok := sh.idField("Member ID")
	if !ok {
		return
	}
	sh.mgr.CancelWaitlist(title, memberID)
}

func (sh *shell) addMember() {
	id, ok := sh.idField("Member ID")
	if !ok {
		return
	}
	name, ok := sh.field("Name")
	if !ok {
		return
	}
	sh.mgr.AddMember(id, name)
}

func (sh *shell) removeMember() {
	if id, ok := sh.idField("Member ID"); ok {
		sh.mgr.RemoveMember(id)
	}
}

func (sh *shell) searchMember() {
	id, ok := sh.idField("Member ID")
	if !ok {
		return
	}
	if m, found := sh.mgr.SearchMemberByID(id); found {
		fmt.Fprintf(sh.out, "Member Found: \n%s\n", m)
	} else {
		fmt.Fprintln(sh.out, "Member not found.")
	}
}
