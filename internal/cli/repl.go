// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain-terminal REPL for OpsPilot.
//
// The REPL is the fallback surface for terminals where the full TUI is
// unwanted (CI sessions, screen readers, dumb terminals). It talks to the
// same session manager as the TUI, so chats created in one surface show up
// in the other.
//
// Interactive commands:
//   /new            Start a new chat
//   /list           List chats
//   /switch N       Switch to chat number N from /list
//   /delete         Delete the active chat
//   /search TEXT    Search message history
//   /raw            Show the raw rows of the last answer
//   /help           Show available commands
//   /quit           Exit
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/fleetops/opspilot-tui/internal/model"
	"github.com/fleetops/opspilot-tui/internal/render"
	"github.com/fleetops/opspilot-tui/internal/search"
	"github.com/fleetops/opspilot-tui/internal/session"
	"github.com/fleetops/opspilot-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Indigo).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the global glamour renderer for answer summaries.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown, falling back to plain text.
func renderMarkdown(s string) string {
	if markdownRenderer == nil {
		return s
	}
	out, err := markdownRenderer.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(out)
}

// =============================================================================
// REPL
// =============================================================================

// REPL is the interactive plain-terminal loop.
type REPL struct {
	manager     *session.Manager
	index       *search.Index
	renderer    *render.Renderer
	line        *liner.State
	historyFile string
	out         io.Writer
}

// NewREPL creates a REPL over the shared session manager. The search index
// may be nil; /search then reports it is unavailable.
func NewREPL(mgr *session.Manager, ix *search.Index, stateDir string) *REPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &REPL{
		manager:     mgr,
		index:       ix,
		renderer:    render.New(styles.NewTheme(), 80),
		line:        line,
		historyFile: filepath.Join(stateDir, "repl_history"),
		out:         os.Stdout,
	}
	r.loadHistory()
	return r
}

// Run drives the REPL until /quit or EOF.
func (r *REPL) Run(ctx context.Context) error {
	defer r.close()

	fmt.Fprintln(r.out, welcomeStyle.Render("OpsPilot"))
	fmt.Fprintln(r.out, infoStyle.Render("Ask about trips, delays, and alerts. /help for commands."))
	fmt.Fprintln(r.out)

	for {
		input, err := r.line.Prompt(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := r.handleCommand(input); quit {
				return nil
			}
			continue
		}

		r.ask(ctx, input)
	}
}

// ask runs one question through the session manager and prints the reply.
func (r *REPL) ask(ctx context.Context, question string) {
	id, err := r.manager.SendAndWait(ctx, r.manager.ActiveID(), question)
	if err != nil && !isTransportError(err) {
		fmt.Fprintln(r.out, warningStyle.Render(err.Error()))
		return
	}
	r.indexLatest(id)

	chat := r.manager.Active()
	if chat == nil {
		return
	}
	reply := chat.LastMessage()
	if reply == nil || reply.Role != model.RoleAssistant {
		return
	}

	fmt.Fprintln(r.out, renderMarkdown(reply.Content))
	if visual := r.renderer.Visual(reply.Rows, reply.Chart, reply.Grouping); visual != "" {
		fmt.Fprintln(r.out, visual)
	}
	if reply.HasRows() {
		fmt.Fprintln(r.out, infoStyle.Render(fmt.Sprintf("/raw to see %d rows", reply.Rows.Len())))
	}
	fmt.Fprintln(r.out)
}

// isTransportError reports whether the failure was already absorbed into an
// apology message by the session manager.
func isTransportError(err error) bool {
	return err != nil && !errors.Is(err, session.ErrEmptyMessage)
}

// =============================================================================
// COMMANDS
// =============================================================================

// handleCommand dispatches a slash command. Returns true to exit.
func (r *REPL) handleCommand(input string) bool {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		r.printHelp()

	case "/new", "/n":
		r.manager.NewChat()
		fmt.Fprintln(r.out, infoStyle.Render("Started a new chat."))

	case "/list", "/l":
		r.printChats()

	case "/switch", "/s":
		r.switchChat(args)

	case "/delete", "/d":
		r.deleteActive()

	case "/search":
		r.search(strings.Join(args, " "))

	case "/raw":
		r.printRaw()

	default:
		fmt.Fprintln(r.out, warningStyle.Render("Unknown command. /help for the list."))
	}
	return false
}

func (r *REPL) printHelp() {
	help := `
/new            Start a new chat
/list           List chats
/switch N       Switch to chat number N from /list
/delete         Delete the active chat
/search TEXT    Search message history
/raw            Show the raw rows of the last answer
/quit           Exit
`
	fmt.Fprintln(r.out, infoStyle.Render(strings.TrimSpace(help)))
}

func (r *REPL) printChats() {
	chats := r.manager.Chats()
	if len(chats) == 0 {
		fmt.Fprintln(r.out, infoStyle.Render("No chats yet."))
		return
	}

	activeID := r.manager.ActiveID()
	for i, c := range chats {
		marker := " "
		if c.ID == activeID {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %2d. %s (%d messages)\n", marker, i+1, c.Title, c.MessageCount())
	}
}

func (r *REPL) switchChat(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, warningStyle.Render("Usage: /switch N"))
		return
	}
	n, err := strconv.Atoi(args[0])
	chats := r.manager.Chats()
	if err != nil || n < 1 || n > len(chats) {
		fmt.Fprintln(r.out, warningStyle.Render("No such chat."))
		return
	}

	r.manager.Select(chats[n-1].ID)
	fmt.Fprintln(r.out, infoStyle.Render("Switched to: "+chats[n-1].Title))
}

func (r *REPL) deleteActive() {
	id := r.manager.ActiveID()
	if id == "" {
		fmt.Fprintln(r.out, infoStyle.Render("No active chat."))
		return
	}
	r.manager.Delete(id)
	if r.index != nil {
		_ = r.index.RemoveChat(id)
	}
	fmt.Fprintln(r.out, infoStyle.Render("Deleted."))
}

func (r *REPL) search(query string) {
	if r.index == nil {
		fmt.Fprintln(r.out, warningStyle.Render("Search is unavailable."))
		return
	}

	hits, err := r.index.Search(query, 10)
	if err != nil {
		fmt.Fprintln(r.out, warningStyle.Render("Search failed: "+err.Error()))
		return
	}
	if len(hits) == 0 {
		fmt.Fprintln(r.out, infoStyle.Render("No matches."))
		return
	}
	for _, h := range hits {
		fmt.Fprintf(r.out, "[%s] %s: %s\n", h.ChatTitle, h.Role.DisplayName(), h.Snippet)
	}
}

func (r *REPL) printRaw() {
	chat := r.manager.Active()
	if chat == nil {
		fmt.Fprintln(r.out, infoStyle.Render("No active chat."))
		return
	}

	// Walk back to the latest assistant message carrying rows
	for i := len(chat.Messages) - 1; i >= 0; i-- {
		msg := chat.Messages[i]
		if msg.Role == model.RoleAssistant && msg.HasRows() {
			fmt.Fprintln(r.out, r.renderer.RawTable(msg.Rows))
			return
		}
	}
	fmt.Fprintln(r.out, infoStyle.Render("The last answer has no raw rows."))
}

// =============================================================================
// HOUSEKEEPING
// =============================================================================

func (r *REPL) indexLatest(chatID string) {
	if r.index == nil || chatID == "" {
		return
	}
	for _, c := range r.manager.Chats() {
		if c.ID == chatID {
			for _, msg := range c.Messages {
				_ = r.index.AddMessage(c, msg)
			}
			return
		}
	}
}

func (r *REPL) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

func (r *REPL) saveHistory() {
	f, err := os.OpenFile(r.historyFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.WriteHistory(f)
}

func (r *REPL) close() {
	r.saveHistory()
	r.line.Close()
}
