package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/openclaw/clawchat/internal/archive"
	"github.com/openclaw/clawchat/internal/chat"
	"github.com/openclaw/clawchat/internal/gateway"
	"github.com/openclaw/clawchat/internal/voice"
	"github.com/openclaw/clawchat/pkg/models"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSessions
)

const (
	sessionPaneWidth = 32
	inputHeight      = 3
)

type model struct {
	client *gateway.Client
	arch   *archive.Archive // nil disables the local transcript archive

	conv     *chat.Conversation
	sessions *chat.SessionList
	tw       *chat.Typewriter
	recorder *voice.Recorder

	focus         focusArea
	sessionCursor int

	input        textarea.Model
	chatViewport viewport.Model
	listViewport viewport.Model
	spinner      *Spinner

	user    models.User
	persona models.Persona
	status  gateway.Status

	notice    string
	noticeSeq int

	transcribing bool

	ready  bool
	width  int
	height int
}

func initialModel(client *gateway.Client, arch *archive.Archive, capture voice.Capture) model {
	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(inputHeight)
	input.Focus()

	return model{
		client:   client,
		arch:     arch,
		conv:     chat.NewConversation(),
		sessions: chat.NewSessionList(),
		tw:       chat.NewTypewriter(),
		recorder: voice.NewRecorder(capture),
		input:    input,
		spinner:  NewSpinner(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		loadSessionsCmd(m.client),
		loadIdentityCmd(m.client),
		textarea.Blink,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.updateViewports()

	case tea.KeyMsg:
		newModel, cmd, handled := m.handleKey(msg)
		if handled {
			return newModel, cmd
		}
		m = newModel

	case SessionsLoadedMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.setNotice(fmt.Sprintf("Could not load sessions: %v", msg.Err)))
			break
		}
		m.sessions.Set(msg.Sessions)
		if m.sessionCursor >= m.sessions.Len() {
			m.sessionCursor = max(0, m.sessions.Len()-1)
		}
		m.updateViewports()

	case HistoryLoadedMsg:
		if msg.Err != nil {
			if m.conv.FailLoad(msg.Seq) {
				cmds = append(cmds, m.setNotice(fmt.Sprintf("Could not load history: %v", msg.Err)))
				m.updateViewports()
			}
			break
		}
		if !m.conv.ApplyHistory(msg.Seq, msg.Messages) {
			break // stale load, a newer session switch won
		}
		if i := m.conv.FreshEntry(); i >= 0 {
			m.tw.Start(m.conv.Entries()[i].Content())
			cmds = append(cmds, typewriterTickCmd(m.tw.Period()))
		}
		if m.conv.SessionID() != "" {
			title := m.sessions.Title(m.conv.SessionID())
			cmds = append(cmds, archiveCmd(m.arch, m.conv.SessionID(), title, msg.Messages))
		}
		m.updateViewports()

	case SentMsg:
		if msg.Err != nil {
			// Hand the typed text back so a failed send loses nothing.
			// A send abandoned by a session switch restores nothing and
			// must not clobber newer input.
			if restored := m.conv.FailSend(); restored != "" {
				m.input.SetValue(restored)
			}
			cmds = append(cmds, m.setNotice(fmt.Sprintf("Send failed: %v", msg.Err)))
			m.updateViewports()
			break
		}
		startedNew := m.conv.SessionID() == ""
		seq := m.conv.CompleteSend(msg.Result.SessionID)
		if seq == 0 {
			break // send was abandoned by a session switch
		}
		cmds = append(cmds, loadHistoryCmd(m.client, seq, msg.Result.SessionID))
		if startedNew {
			cmds = append(cmds, loadSessionsCmd(m.client))
		}

	case DeletedMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.setNotice(fmt.Sprintf("Delete failed: %v", msg.Err)))
			break
		}
		m.sessions.Remove(msg.SessionID)
		if m.sessionCursor >= m.sessions.Len() {
			m.sessionCursor = max(0, m.sessions.Len()-1)
		}
		if m.conv.SessionID() == msg.SessionID {
			m.conv.SwitchTo("")
			m.tw.Reset()
		}
		cmds = append(cmds, forgetCmd(m.arch, msg.SessionID))
		m.updateViewports()

	case TranscribedMsg:
		m.recorder.Finish()
		m.transcribing = false
		if msg.Err != nil {
			cmds = append(cmds, m.setNotice(fmt.Sprintf("Transcription failed: %v", msg.Err)))
			break
		}
		// Transcribed text lands in the input, never auto-sent.
		if existing := m.input.Value(); existing != "" {
			m.input.SetValue(existing + " " + msg.Text)
		} else {
			m.input.SetValue(msg.Text)
		}

	case IdentityLoadedMsg:
		m.user = msg.User
		m.persona = msg.Persona
		m.status = msg.Status

	case TypewriterTickMsg:
		if m.tw.Animating() {
			more := m.tw.Advance()
			m.updateViewports()
			if more {
				cmds = append(cmds, typewriterTickCmd(m.tw.Period()))
			} else {
				m.conv.ClearFresh()
			}
		}

	case SpinnerTickMsg:
		if m.busy() {
			m.spinner.Next()
			cmds = append(cmds, spinnerTickCmd())
		}

	case ClearNoticeMsg:
		if msg.Seq == m.noticeSeq {
			m.notice = ""
		}
	}

	// Forward remaining input to the focused widgets. Key strokes go to
	// the chat viewport only when the input is not focused, so typing
	// never scrolls the conversation.
	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	if _, isKey := msg.(tea.KeyMsg); !isKey || m.focus == focusSessions {
		var cmd tea.Cmd
		m.chatViewport, cmd = m.chatViewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes key presses. The bool result reports whether the
// key was fully handled and must not reach the focused textarea.
func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true

	case "tab":
		if m.focus == focusInput {
			m.focus = focusSessions
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		m.updateViewports()
		return m, nil, true

	case "enter":
		if m.focus == focusInput {
			return m.startSend()
		}
		return m.switchToCursor()

	case "ctrl+n":
		m.conv.SwitchTo("")
		m.tw.Reset()
		m.focus = focusInput
		m.input.Focus()
		m.updateViewports()
		return m, nil, true

	case "ctrl+r":
		return m.toggleRecording()

	case "up", "k":
		if m.focus == focusSessions {
			if m.sessionCursor > 0 {
				m.sessionCursor--
				m.updateViewports()
			}
			return m, nil, true
		}

	case "down", "j":
		if m.focus == focusSessions {
			if m.sessionCursor < m.sessions.Len()-1 {
				m.sessionCursor++
				m.updateViewports()
			}
			return m, nil, true
		}

	case "ctrl+d":
		if m.focus == focusSessions {
			if s, ok := m.sessions.Get(m.sessionCursor); ok {
				return m, deleteSessionCmd(m.client, s.SessionID), true
			}
			return m, nil, true
		}

	case "q":
		if m.focus == focusSessions {
			return m, tea.Quit, true
		}
	}

	return m, nil, false
}

func (m model) startSend() (model, tea.Cmd, bool) {
	text, ok := m.conv.BeginSend(m.input.Value(), time.Now())
	if !ok {
		return m, nil, true
	}
	m.input.Reset()

	var sessionID *string
	if id := m.conv.SessionID(); id != "" {
		sessionID = &id
	}
	m.updateViewports()
	return m, tea.Batch(sendCmd(m.client, sessionID, text), spinnerTickCmd()), true
}

func (m model) switchToCursor() (model, tea.Cmd, bool) {
	s, ok := m.sessions.Get(m.sessionCursor)
	if !ok {
		return m, nil, true
	}
	if s.SessionID == m.conv.SessionID() {
		return m, nil, true
	}
	seq := m.conv.SwitchTo(s.SessionID)
	m.tw.Reset()
	m.updateViewports()
	return m, loadHistoryCmd(m.client, seq, s.SessionID), true
}

func (m model) toggleRecording() (model, tea.Cmd, bool) {
	switch m.recorder.State() {
	case voice.StateIdle:
		if err := m.recorder.Start(); err != nil {
			return m, m.setNotice(fmt.Sprintf("Recording failed: %v", err)), true
		}
		return m, nil, true

	case voice.StateRecording:
		audio, err := m.recorder.Stop()
		if err != nil {
			return m, m.setNotice(fmt.Sprintf("Recording failed: %v", err)), true
		}
		m.transcribing = true
		return m, tea.Batch(transcribeCmd(m.client, audio), spinnerTickCmd()), true
	}
	// Transcribing: ignore until the request resolves.
	return m, nil, true
}

func (m *model) setNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeSeq++
	return clearNoticeCmd(m.noticeSeq)
}

func (m model) busy() bool {
	return m.conv.Sending() || m.transcribing
}

func (m *model) layout() {
	chatWidth := m.width - sessionPaneWidth - 1
	if chatWidth < 20 {
		chatWidth = 20
	}
	// Header, input and footer take fixed rows.
	mainHeight := m.height - 1 - inputHeight - 2
	if mainHeight < 3 {
		mainHeight = 3
	}

	if !m.ready {
		m.listViewport = viewport.New(sessionPaneWidth, mainHeight)
		m.chatViewport = viewport.New(chatWidth, mainHeight)
		m.ready = true
	} else {
		m.listViewport.Width = sessionPaneWidth
		m.listViewport.Height = mainHeight
		m.chatViewport.Width = chatWidth
		m.chatViewport.Height = mainHeight
	}
	m.input.SetWidth(m.width - 2)
}

func (m *model) updateViewports() {
	if !m.ready {
		return
	}
	m.listViewport.SetContent(m.renderSessionList())
	wasAtBottom := m.chatViewport.AtBottom()
	m.chatViewport.SetContent(m.renderConversation())
	if wasAtBottom || m.tw.Animating() {
		m.chatViewport.GotoBottom()
	}
}

func (m model) renderSessionList() string {
	var s strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	s.WriteString(headerStyle.Render("Sessions") + "\n")
	s.WriteString(strings.Repeat("─", sessionPaneWidth-2) + "\n")

	if m.sessions.Len() == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
		s.WriteString(emptyStyle.Render("No sessions yet"))
		return s.String()
	}

	for i, session := range m.sessions.Sessions() {
		cursor := "  "
		if i == m.sessionCursor && m.focus == focusSessions {
			cursor = "> "
		}

		style := lipgloss.NewStyle()
		switch {
		case session.SessionID == m.conv.SessionID():
			style = style.Foreground(lipgloss.Color("212")).Bold(true)
		case i == m.sessionCursor && m.focus == focusSessions:
			style = style.Foreground(lipgloss.Color("252"))
		default:
			style = style.Foreground(lipgloss.Color("245"))
		}

		title := session.Title
		if title == "" {
			title = "New conversation"
		}
		s.WriteString(style.Render(cursor+truncate(title, sessionPaneWidth-4)) + "\n")
	}

	return s.String()
}

func (m model) renderConversation() string {
	entries := m.conv.Entries()
	if len(entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
		if m.conv.SessionID() == "" {
			return emptyStyle.Render("Start a new conversation: type a message below.")
		}
		return emptyStyle.Render("No messages in this session")
	}

	userStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))
	assistantStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212"))
	textStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))
	provisionalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true)

	assistantName := "Assistant"
	if m.persona.Name != "" {
		assistantName = m.persona.Name
	}

	wrapWidth := m.chatViewport.Width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var s strings.Builder
	for i, entry := range entries {
		if entry.Role() == models.RoleUser {
			s.WriteString(userStyle.Render("You") + "\n")
		} else {
			s.WriteString(assistantStyle.Render(assistantName) + "\n")
		}

		content := entry.Content()
		style := textStyle
		if entry.Kind == chat.EntryProvisional {
			style = provisionalStyle
		}
		if entry.Fresh && m.tw.Animating() {
			content = m.tw.Visible() + "▌"
		}

		for _, line := range strings.Split(content, "\n") {
			for _, wrapped := range wrapText(line, wrapWidth) {
				s.WriteString("  " + style.Render(wrapped) + "\n")
			}
		}

		if i < len(entries)-1 {
			s.WriteString("\n")
		}
	}

	if m.conv.Sending() {
		s.WriteString("\n" + m.spinner.Busy("thinking"))
	}

	return s.String()
}

func (m model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	header := m.renderHeader()
	main := m.renderSplitView()
	footer := m.renderFooter()

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, main, m.input.View(), footer)
}

func (m model) renderSplitView() string {
	leftStyle := lipgloss.NewStyle().
		Width(m.listViewport.Width).
		Height(m.listViewport.Height)
	rightStyle := lipgloss.NewStyle().
		Width(m.chatViewport.Width).
		Height(m.chatViewport.Height)
	dividerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238"))

	divider := strings.Builder{}
	for i := 0; i < m.listViewport.Height; i++ {
		divider.WriteString("│")
		if i < m.listViewport.Height-1 {
			divider.WriteString("\n")
		}
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftStyle.Render(m.listViewport.View()),
		dividerStyle.Render(divider.String()),
		rightStyle.Render(m.chatViewport.View()),
	)
}

func (m model) renderHeader() string {
	title := "clawchat"
	if m.persona.Name != "" {
		title = fmt.Sprintf("clawchat · %s %s", m.persona.Emoji, m.persona.Name)
	}

	right := ""
	if m.user.Email != "" {
		right = m.user.Email
	}
	if m.status.Running {
		right += " ●"
	}

	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("63")).
		Width(m.width)

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return style.Render(title + strings.Repeat(" ", gap) + right)
}

func (m model) renderFooter() string {
	var info string
	switch {
	case m.notice != "":
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Render(m.notice)
	case m.recorder.Recording():
		info = "● recording · ctrl+r to stop"
	case m.transcribing:
		info = m.spinner.Busy("transcribing")
	case m.focus == focusSessions:
		info = "↑/↓: navigate • enter: open • ctrl+d: delete • tab: input • q: quit"
	default:
		info = "enter: send • ctrl+n: new chat • ctrl+r: record • tab: sessions • ctrl+c: quit"
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(info)
}

// wrapText wraps text to fit within the specified width
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	currentLine := words[0]
	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) > width {
			lines = append(lines, currentLine)
			currentLine = word
		} else {
			currentLine += " " + word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Run starts the interactive chat TUI.
func Run(client *gateway.Client, arch *archive.Archive, capture voice.Capture) error {
	p := tea.NewProgram(
		initialModel(client, arch, capture),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
