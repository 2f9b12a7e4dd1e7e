// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains all rendering logic for the chat interface, including:
//   - Main view rendering (renderChat)
//   - Transcript entry rendering (user, agent, tool, error, notice)
//   - UI chrome (header, input area, char count)
//   - Code block splitting for agent replies
//   - The context-sensitive help overlay
//
// Formatting and text utilities live in utils.go.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/uplink-tui/internal/transcript"
	"github.com/jeranaias/uplink-tui/internal/ui/components"
	"github.com/jeranaias/uplink-tui/internal/ui/styles"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// renderChat renders the complete chat view.
// Layout: header + transcript (viewport) + [tool chips] + [attachments bar]
// + [completion popup] + input (3 lines) + status bar.
// Total height must equal m.height exactly to prevent overflow/underflow.
//
// COUPLING WARNING: The viewport height is pre-calculated in handleResize()
// (model.go) using conservative constant estimates. This function measures
// actual heights with lipgloss.Height() and pads or clips the viewport on a
// mismatch. If you change the height of any component here, also revisit the
// constants in handleResize().
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// The help overlay replaces the normal UI while open
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	header := m.renderHeader()
	input := m.renderInput()
	status := m.statusBar.View()

	var chipRow string
	if m.chips.Count() > 0 {
		chipRow = m.chips.View()
	}

	var attachRow string
	if len(m.pending) > 0 {
		attachRow = m.attachBar.View()
	}

	popup := m.renderCompletionPopup()

	// Measure the fixed chrome so the viewport gets exactly the remainder.
	// lipgloss.Height("") is 1, so absent rows must not be measured.
	chromeHeight := lipgloss.Height(header) + lipgloss.Height(input) + lipgloss.Height(status)
	for _, row := range []string{chipRow, attachRow, popup} {
		if row != "" {
			chromeHeight += lipgloss.Height(row)
		}
	}

	availableHeight := m.height - chromeHeight
	if availableHeight < 1 {
		availableHeight = 1
	}

	messages := m.viewport.View()

	// The viewport was sized with conservative constants in handleResize,
	// so dynamic rows (chips, attachments, popup) can leave it a line or
	// two off. Force the exact height so the stack always fits.
	if lipgloss.Height(messages) != availableHeight {
		messages = lipgloss.NewStyle().
			Height(availableHeight).
			MaxHeight(availableHeight).
			Width(m.width).
			Render(messages)
	}

	rows := []string{header, messages}
	if chipRow != "" {
		rows = append(rows, chipRow)
	}
	if attachRow != "" {
		rows = append(rows, attachRow)
	}
	if popup != "" {
		rows = append(rows, popup)
	}
	rows = append(rows, input, status)

	baseView := lipgloss.JoinVertical(lipgloss.Left, rows...)

	// Non-blocking toasts overlay the bottom-right corner without
	// stealing input focus.
	if m.toasts.HasToasts() {
		toastOverlay := components.RenderToastStack(m.toasts.GetToasts(), m.width, m.height)
		return m.overlayToasts(baseView, toastOverlay)
	}

	return baseView
}

// overlayToasts renders toasts on top of the base view.
// Toasts are positioned in the bottom-right corner without blocking interaction.
func (m Model) overlayToasts(baseView, toastView string) string {
	baseLines := strings.Split(baseView, "\n")
	toastLines := strings.Split(toastView, "\n")

	toastHeight := len(toastLines)

	// Start overlaying above the input area and status bar
	startRow := m.height - toastHeight - 2
	if startRow < 0 {
		startRow = 0
	}

	result := make([]string, len(baseLines))
	for i, baseLine := range baseLines {
		toastLineIdx := i - startRow
		if toastLineIdx >= 0 && toastLineIdx < len(toastLines) {
			toastLine := toastLines[toastLineIdx]
			if lipgloss.Width(toastLine) > 0 {
				baseWidth := lipgloss.Width(baseLine)
				toastLineWidth := lipgloss.Width(toastLine)

				// Pad base line so the toast lands at the right edge
				if baseWidth < m.width-toastLineWidth-1 {
					baseLine = baseLine + strings.Repeat(" ", m.width-toastLineWidth-1-baseWidth)
				}

				// Truncate base line to make room for the toast
				if baseWidth > m.width-toastLineWidth-1 {
					cutPoint := m.width - toastLineWidth - 1
					if cutPoint > 0 {
						baseLine = truncateToWidth(baseLine, cutPoint)
					}
				}

				result[i] = baseLine + toastLine
			} else {
				result[i] = baseLine
			}
		} else {
			result[i] = baseLine
		}
	}

	return strings.Join(result, "\n")
}

// truncateToWidth truncates a string to fit within a given visible width.
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}

	currentWidth := 0
	var result strings.Builder

	for _, r := range s {
		runeWidth := lipgloss.Width(string(r))
		if currentWidth+runeWidth > width {
			break
		}
		result.WriteRune(r)
		currentWidth += runeWidth
	}

	return result.String()
}

// =============================================================================
// HEADER
// =============================================================================

// renderHeader renders the title bar with the agent name and a connection
// indicator. The header uses a dimmed surface background and is 1 line high.
func (m Model) renderHeader() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Purple).
		Render("uplink")

	agentInfo := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(" | " + m.agentName)

	var statusIcon string
	if m.connected {
		statusIcon = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Render(" " + styles.StatusIndicators.Active)
	} else {
		statusIcon = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Render(" " + styles.StatusIndicators.Error)
	}

	var versionInfo string
	if m.version != "" {
		versionInfo = lipgloss.NewStyle().
			Foreground(styles.Overlay).
			Render(" v" + m.version)
	}

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Width(width).
		Padding(0, 1).
		Render(title + agentInfo + statusIcon + versionInfo)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript renders every transcript entry with per-kind styling.
// Returns the empty state screen when nothing has been said yet.
func (m Model) renderTranscript() string {
	entries := m.transcript.Entries()
	if len(entries) == 0 {
		return m.renderEmptyState()
	}

	var parts []string
	for _, e := range entries {
		var rendered string
		switch e.Kind {
		case transcript.EntryUser:
			rendered = m.renderUserEntry(e)
		case transcript.EntryAssistant:
			rendered = m.renderAgentEntry(e)
		case transcript.EntryTool:
			rendered = m.renderToolEntry(e)
		case transcript.EntryError:
			rendered = m.renderErrorEntry(e)
		case transcript.EntryNotice:
			rendered = m.renderNoticeEntry(e)
		default:
			rendered = e.Text
		}
		if rendered != "" {
			parts = append(parts, rendered)
		}
	}

	// Spinner line while the agent is thinking or a tool is running
	if m.thinking.IsActive() {
		parts = append(parts, m.renderThinkingLine())
	}

	return strings.Join(parts, "\n")
}

// maxBubbleWidth returns the widest a message bubble may render.
func (m Model) maxBubbleWidth() int {
	maxWidth := m.width - 8
	if maxWidth > m.width-2 {
		maxWidth = m.width - 2
	}
	if maxWidth < 10 {
		maxWidth = 10
	}
	return maxWidth
}

// wrapWidthFor returns the text wrap width inside a bubble of the given
// outer width, honoring the configured word wrap column.
func (m Model) wrapWidthFor(maxWidth int) int {
	wrapWidth := maxWidth - 4
	if cols := m.cfg.UI.WordWrapCols; cols > 0 && wrapWidth > cols {
		wrapWidth = cols
	}
	if wrapWidth < 10 {
		wrapWidth = 10
	}
	return wrapWidth
}

// entryStamp renders a muted timestamp for an entry, or "" when timestamps
// are disabled.
func (m Model) entryStamp(e transcript.Entry) string {
	if !m.cfg.UI.ShowTimestamps {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(formatTimestamp(e.Time))
}

// renderUserEntry renders a user message as a right-aligned blue bubble.
// Attachment labels ride inside the bubble under the text.
func (m Model) renderUserEntry(e transcript.Entry) string {
	maxWidth := m.maxBubbleWidth()

	content := e.Text
	for _, att := range e.Media {
		content += "\n" + att.Label()
	}

	bubble := lipgloss.NewStyle().
		Foreground(styles.UserBubbleFg).
		Background(styles.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.UserBubbleBorder).
		Padding(0, 2).
		MaxWidth(maxWidth)

	body := bubble.Render(wrapText(content, m.wrapWidthFor(maxWidth)))

	if stamp := m.entryStamp(e); stamp != "" {
		body = lipgloss.JoinVertical(lipgloss.Right, body, stamp)
	}

	// Push right; the alignment and color are the role label
	marginLeft := m.width - lipgloss.Width(body) - 4
	if marginLeft < 0 {
		marginLeft = 0
	}

	return lipgloss.NewStyle().
		MarginLeft(marginLeft).
		MarginTop(1).
		MarginBottom(1).
		Render(body)
}

// renderAgentEntry renders an agent reply with code block processing and a
// streaming cursor while the reply is still open.
func (m Model) renderAgentEntry(e transcript.Entry) string {
	maxWidth := m.maxBubbleWidth()

	content := e.Text

	// Nothing arrived yet and the entry is settled: skip the empty bubble
	if strings.TrimSpace(content) == "" && !e.Streaming {
		return ""
	}

	if e.Streaming {
		if content == "" {
			content = "_"
		} else {
			content += lipgloss.NewStyle().
				Foreground(styles.Purple).
				Blink(true).
				Render("_")
		}
	}

	body := m.renderContentWithCodeBlocks(content, maxWidth)

	if !e.Streaming {
		if stamp := m.entryStamp(e); stamp != "" {
			body = lipgloss.JoinVertical(lipgloss.Left, body, stamp)
		}
	}

	return lipgloss.NewStyle().
		MarginTop(1).
		MarginBottom(1).
		MarginLeft(2).
		Render(body)
}

// renderContentWithCodeBlocks splits agent text on ``` fences and renders
// the code spans through the CodeBlock component.
func (m Model) renderContentWithCodeBlocks(content string, maxWidth int) string {
	wrapWidth := m.wrapWidthFor(maxWidth)

	textBubble := lipgloss.NewStyle().
		Foreground(styles.AgentBubbleFg).
		Background(styles.AgentBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.AgentBubbleBorder).
		Padding(0, 2).
		MaxWidth(maxWidth)

	if !strings.Contains(content, "```") {
		return textBubble.Render(wrapText(content, wrapWidth))
	}

	var parts []string
	var currentText []string
	var codeLines []string
	var language string
	var inCodeBlock bool

	flushText := func() {
		if len(currentText) == 0 {
			return
		}
		text := strings.Join(currentText, "\n")
		if strings.TrimSpace(text) != "" {
			parts = append(parts, textBubble.Render(wrapText(text, wrapWidth)))
		}
		currentText = nil
	}

	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "```"):
			if inCodeBlock {
				flushText()
				code := strings.Join(codeLines, "\n")
				cb := components.NewCodeBlock(language, code)
				cb.SetMaxWidth(maxWidth)
				parts = append(parts, cb.Render())
				codeLines = nil
				language = ""
				inCodeBlock = false
			} else {
				flushText()
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				inCodeBlock = true
			}
		case inCodeBlock:
			codeLines = append(codeLines, line)
		default:
			currentText = append(currentText, line)
		}
	}

	flushText()

	// An unclosed fence happens mid-stream; render what we have as code
	if inCodeBlock {
		if len(codeLines) > 0 {
			code := strings.Join(codeLines, "\n")
			cb := components.NewCodeBlock(language, code)
			cb.SetMaxWidth(maxWidth)
			parts = append(parts, cb.Render())
		} else {
			parts = append(parts, textBubble.Render("```"+language))
		}
	}

	return strings.Join(parts, "\n")
}

// renderToolEntry renders a tool call as a left-bordered block: amber while
// running, emerald once the result is in.
func (m Model) renderToolEntry(e transcript.Entry) string {
	maxWidth := m.maxBubbleWidth()

	var icon string
	var borderColor lipgloss.AdaptiveColor
	var fg, bg lipgloss.AdaptiveColor

	if e.ToolDone {
		icon = styles.StatusIndicators.Success
		borderColor = styles.Emerald
		fg, bg = styles.ToolDoneFg, styles.ToolDoneBg
	} else {
		icon = styles.StatusIndicators.Pending
		borderColor = styles.Amber
		fg, bg = styles.ToolRunningFg, styles.ToolRunningBg
	}

	label := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Render(icon + " " + e.ToolName)

	content := e.ToolResult
	if !e.ToolDone {
		content = "running..."
	}

	block := lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		BorderLeft(true).
		PaddingLeft(2).
		MaxWidth(maxWidth).
		Render(wrapText(content, m.wrapWidthFor(maxWidth)))

	return lipgloss.NewStyle().
		MarginTop(1).
		MarginBottom(1).
		MarginLeft(2).
		Render(label + "\n" + block)
}

// renderErrorEntry renders a backend error with rose styling.
func (m Model) renderErrorEntry(e transcript.Entry) string {
	maxWidth := m.maxBubbleWidth()

	label := lipgloss.NewStyle().
		Foreground(styles.Rose).
		Bold(true).
		Render(styles.StatusIndicators.Error + " " + e.Kind.DisplayName())

	block := lipgloss.NewStyle().
		Foreground(styles.Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Rose).
		BorderLeft(true).
		PaddingLeft(2).
		MaxWidth(maxWidth).
		Render(wrapText(e.Text, m.wrapWidthFor(maxWidth)))

	return lipgloss.NewStyle().
		MarginTop(1).
		MarginBottom(1).
		MarginLeft(2).
		Render(label + "\n" + block)
}

// renderNoticeEntry renders a session notice centered with a double border.
func (m Model) renderNoticeEntry(e transcript.Entry) string {
	maxWidth := m.maxBubbleWidth()

	bubble := lipgloss.NewStyle().
		Foreground(styles.NoticeBubbleFg).
		Background(styles.NoticeBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.NoticeBubbleBorder).
		Padding(0, 2).
		MaxWidth(maxWidth)

	rendered := bubble.Render(wrapText(e.Text, m.wrapWidthFor(maxWidth)))

	return lipgloss.NewStyle().
		MarginTop(1).
		MarginBottom(1).
		Render(rendered)
}

// renderThinkingLine renders the animated thinking spinner under the last
// entry while a turn is in flight.
func (m Model) renderThinkingLine() string {
	return lipgloss.NewStyle().
		MarginLeft(2).
		Render(m.thinking.View())
}

// renderEmptyState renders the empty transcript with a welcoming screen.
// Shows: welcome header, connection info, quick tips, example prompts, and
// a help hint.
func (m Model) renderEmptyState() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	emptyWidth := width - 8
	if emptyWidth < 40 {
		emptyWidth = 40
	}
	if emptyWidth > 80 {
		emptyWidth = 80
	}

	var sb strings.Builder

	welcomeStyle := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Bold(true).
		Align(lipgloss.Center).
		Width(emptyWidth)
	sb.WriteString(welcomeStyle.Render("Welcome to uplink"))
	sb.WriteString("\n\n")

	infoStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Align(lipgloss.Center).
		Width(emptyWidth)
	if m.connected {
		sb.WriteString(infoStyle.Render("Talking to " + m.agentName + " at " + m.serverURL))
	} else {
		sb.WriteString(infoStyle.Render("Not connected. Use /connect to reach the agent."))
	}
	sb.WriteString("\n\n")

	sepStyle := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Align(lipgloss.Center).
		Width(emptyWidth)
	sb.WriteString(sepStyle.Render(strings.Repeat("-", 40)))
	sb.WriteString("\n\n")

	tipsHeaderStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)
	sb.WriteString(tipsHeaderStyle.Render("Quick Tips"))
	sb.WriteString("\n\n")

	tipStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true)

	tips := []struct {
		key  string
		desc string
	}{
		{"Type a message", "Start talking to the agent"},
		{"F1", "Show keyboard shortcuts"},
		{"/help", "List available commands"},
		{"/attach <path>", "Send an image or video with your message"},
		{"Tab", "Complete commands and arguments"},
		{"Ctrl+L", "Clear the conversation on both sides"},
	}

	for _, tip := range tips {
		line := fmt.Sprintf("  %s  %s",
			keyStyle.Render(fmt.Sprintf("%-16s", tip.key)),
			tipStyle.Render(tip.desc))
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")

	examplesHeaderStyle := lipgloss.NewStyle().
		Foreground(styles.Emerald).
		Bold(true)
	sb.WriteString(examplesHeaderStyle.Render("Try asking"))
	sb.WriteString("\n\n")

	exampleStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Italic(true)

	examples := []string{
		"\"What time is it right now?\"",
		"\"Work out 1337 * 42 for me\"",
		"\"Summarize what you can do\"",
	}

	for _, example := range examples {
		sb.WriteString("  " + exampleStyle.Render(example))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Align(lipgloss.Center).
		Width(emptyWidth)
	sb.WriteString(hintStyle.Render("Press F1 for help | Ctrl+C to quit"))

	containerStyle := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(width - 4).
		Padding(2, 0)

	return containerStyle.Render(sb.String())
}

// =============================================================================
// INPUT AREA
// =============================================================================

// renderInput renders the input area with a focus ring indicator: a bright
// top border while the input is focused, dim while it is not.
func (m Model) renderInput() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	borderColor := styles.FocusRingDim
	if m.input.Focused() {
		borderColor = styles.FocusRing
	}

	topBorder := lipgloss.NewStyle().
		Foreground(borderColor).
		Render(strings.Repeat("─", width))

	// Phase hint after the input, mirroring the status bar for visibility
	// while typing
	var statusIndicator string
	switch {
	case m.transcript.IsStreaming():
		statusIndicator = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Render(" (streaming...)")
	case m.transcript.RunningTools() > 0:
		statusIndicator = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Render(" (tool running...)")
	case m.transcript.WaitingForText():
		statusIndicator = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Render(" (waiting...)")
	}

	inputLineWidth := width - 4
	if inputLineWidth < 10 {
		inputLineWidth = 10
	}

	inputLine := lipgloss.NewStyle().
		Width(inputLineWidth).
		Render("  " + m.input.View() + statusIndicator)

	charCount := m.renderCharCount()

	result := lipgloss.JoinVertical(
		lipgloss.Left,
		topBorder,
		inputLine,
		charCount,
	)

	// Fixed height prevents layout shift while typing
	return lipgloss.NewStyle().
		Height(3).
		MaxHeight(3).
		Width(width).
		Render(result)
}

// renderCharCount renders the character count indicator.
func (m Model) renderCharCount() string {
	count := len([]rune(m.input.Value()))
	max := m.input.CharLimit
	if max <= 0 {
		max = 1
	}

	var style lipgloss.Style
	percent := float64(count) / float64(max) * 100

	if percent >= 90 {
		style = lipgloss.NewStyle().Foreground(styles.Rose)
	} else if percent >= 75 {
		style = lipgloss.NewStyle().Foreground(styles.Amber)
	} else {
		style = lipgloss.NewStyle().Foreground(styles.TextMuted)
	}

	countStr := formatInt(count) + " / " + formatInt(max)

	width := m.width
	if width <= 0 {
		width = 80
	}
	charCountWidth := width - 4
	if charCountWidth < 10 {
		charCountWidth = 10
	}

	return lipgloss.NewStyle().
		Width(charCountWidth).
		Align(lipgloss.Right).
		Padding(0, 2).
		Render(style.Render(countStr))
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

// renderHelpOverlay renders context-sensitive keyboard shortcuts.
// Following lazygit's pattern, only keybindings that work in the current
// context are shown. Displayed when the user presses F1.
func (m Model) renderHelpOverlay() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	activeContext := m.helpContext()

	groupedItems := GetHelpItemsByCategory(activeContext)
	categoryOrder := GetCategoryOrder()

	var sb strings.Builder

	contextName := GetContextDisplayName(activeContext)
	sb.WriteString(fmt.Sprintf("Keys available now (%s)\n", contextName))
	sb.WriteString(strings.Repeat("─", 35) + "\n\n")

	hasContent := false
	for _, category := range categoryOrder {
		items, exists := groupedItems[category]
		if !exists || len(items) == 0 {
			continue
		}

		hasContent = true
		categoryStyle := lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
		sb.WriteString(categoryStyle.Render(string(category)) + "\n")

		for _, item := range items {
			keyStyle := lipgloss.NewStyle().Foreground(styles.Amber)
			descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
			sb.WriteString(fmt.Sprintf("  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-14s", item.Key)),
				descStyle.Render(item.Desc)))
		}
		sb.WriteString("\n")
	}

	if !hasContent {
		sb.WriteString("  No specific keybindings for this mode.\n\n")
	}

	sb.WriteString(strings.Repeat("─", 35) + "\n")
	stateStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	var modeInfo string
	switch activeContext {
	case ContextInput:
		modeInfo = "Ready - type a message or a /command"
	case ContextStreaming:
		modeInfo = "Turn in flight - scrollback stays live"
	case ContextCompletion:
		modeInfo = "Completion - Tab cycles, Enter accepts"
	case ContextOffline:
		modeInfo = "Offline - /connect to reach the agent"
	default:
		modeInfo = "Press F1 to toggle help"
	}
	sb.WriteString(stateStyle.Render(modeInfo) + "\n")

	sb.WriteString("\n")
	closeStyle := lipgloss.NewStyle().Foreground(styles.Overlay)
	sb.WriteString(closeStyle.Render("Press F1 or Esc to close"))

	content := sb.String()

	contentWidth := 55
	if contentWidth > width-4 {
		contentWidth = width - 4
	}

	contentLines := strings.Count(content, "\n") + 1
	contentHeight := contentLines + 2
	if contentHeight > height-4 {
		contentHeight = height - 4
	}

	helpStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Foreground(styles.TextPrimary).
		Background(styles.Surface).
		Padding(1, 2).
		Width(contentWidth).
		MaxHeight(contentHeight)

	helpBox := helpStyle.Render(content)

	helpWidth := lipgloss.Width(helpBox)
	helpHeight := lipgloss.Height(helpBox)

	marginLeft := (width - helpWidth) / 2
	if marginLeft < 0 {
		marginLeft = 0
	}
	marginTop := (height - helpHeight) / 2
	if marginTop < 0 {
		marginTop = 0
	}

	return lipgloss.NewStyle().
		MarginLeft(marginLeft).
		MarginTop(marginTop).
		Render(helpBox)
}
