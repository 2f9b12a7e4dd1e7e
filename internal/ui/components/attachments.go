// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the uplink TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/uplink-tui/internal/media"
	"github.com/jeranaias/uplink-tui/internal/ui/styles"
	"github.com/jeranaias/uplink-tui/internal/util"
)

// =============================================================================
// ATTACHMENTS BAR MODEL
// =============================================================================

// AttachmentsBar displays the media files staged to ride the next message.
// It renders one chip per file plus a meter showing how much of the byte
// budget the staged set has consumed. The bar collapses to nothing when
// no files are staged.
type AttachmentsBar struct {
	items    []media.Attachment
	maxBytes int64

	width int
	theme *styles.Theme
}

// maxChipName caps the file name shown inside a chip.
const maxChipName = 20

// budgetMeterWidth is the character width of the usage meter.
const budgetMeterWidth = 12

// NewAttachmentsBar creates an empty attachments bar.
func NewAttachmentsBar(theme *styles.Theme) AttachmentsBar {
	return AttachmentsBar{
		maxBytes: media.DefaultLimit,
		width:    80,
		theme:    theme,
	}
}

// SetItems replaces the staged attachment list.
func (b *AttachmentsBar) SetItems(items []media.Attachment) {
	b.items = items
}

// SetLimit sets the byte budget the meter is drawn against.
func (b *AttachmentsBar) SetLimit(maxBytes int64) {
	if maxBytes > 0 {
		b.maxBytes = maxBytes
	}
}

// SetWidth sets the render width.
func (b *AttachmentsBar) SetWidth(width int) {
	b.width = width
}

// Count returns the number of staged attachments.
func (b *AttachmentsBar) Count() int {
	return len(b.items)
}

// TotalBytes returns the combined raw size of the staged attachments.
func (b *AttachmentsBar) TotalBytes() int64 {
	return media.TotalSize(b.items)
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the bar, or an empty string when nothing is staged.
func (b AttachmentsBar) View() string {
	if len(b.items) == 0 {
		return ""
	}

	if b.width < 60 {
		return b.viewNarrow()
	}
	return b.viewWide()
}

// viewWide renders chips plus the budget meter on one bar.
func (b AttachmentsBar) viewWide() string {
	chips := b.renderChips(b.width - budgetMeterWidth - 24)
	meter := b.renderBudget()

	chipWidth := lipgloss.Width(chips)
	meterWidth := lipgloss.Width(meter)

	spacing := b.width - chipWidth - meterWidth - 4
	if spacing < 1 {
		spacing = 1
	}

	row := chips + strings.Repeat(" ", spacing) + meter

	if b.theme != nil {
		return b.theme.AttachmentsBar.Width(b.width - 2).Render(row)
	}
	return row
}

// viewNarrow renders just the count and the meter.
func (b AttachmentsBar) viewNarrow() string {
	count := util.IntToString(len(b.items)) + " staged"
	row := count + " " + b.renderBudget()

	if b.theme != nil {
		return b.theme.AttachmentsBar.Width(b.width - 2).Render(row)
	}
	return row
}

// renderChips renders one chip per staged file, eliding the tail with a
// "+N more" marker when the chips would overflow the given width.
func (b AttachmentsBar) renderChips(maxWidth int) string {
	if maxWidth < 16 {
		maxWidth = 16
	}

	var sb strings.Builder
	used := 0
	shown := 0

	for _, item := range b.items {
		chip := b.renderChip(item)
		w := lipgloss.Width(chip) + 1
		if used+w > maxWidth && shown > 0 {
			break
		}
		if shown > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(chip)
		used += w
		shown++
	}

	if shown < len(b.items) {
		more := "+" + util.IntToString(len(b.items)-shown) + " more"
		moreStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
		sb.WriteString(" ")
		sb.WriteString(moreStyle.Render(more))
	}

	return sb.String()
}

// renderChip renders a single attachment chip.
func (b AttachmentsBar) renderChip(item media.Attachment) string {
	icon := "[img]"
	if item.Kind == media.KindVideo {
		icon = "[vid]"
	}

	name := util.TruncateRunes(item.Name, maxChipName)
	label := icon + " " + name + " " + util.FormatBytes(item.Size)

	if b.theme != nil {
		return b.theme.AttachmentChip.Render(label)
	}
	return label
}

// renderBudget renders the byte budget meter with usage text.
func (b AttachmentsBar) renderBudget() string {
	total := media.TotalSize(b.items)

	percent := 0.0
	if b.maxBytes > 0 {
		percent = float64(total) / float64(b.maxBytes) * 100
	}

	bar := styles.RenderProgressBar(budgetMeterWidth, percent)

	// Color shifts as the staged set approaches the limit
	barColor := styles.Cyan
	switch {
	case percent >= 90:
		barColor = styles.Rose
	case percent >= 75:
		barColor = styles.Amber
	case percent >= 50:
		barColor = styles.Emerald
	}
	barStyle := lipgloss.NewStyle().Foreground(barColor)

	usage := util.FormatBytes(total) + "/" + util.FormatBytes(b.maxBytes)

	text := usage
	if b.theme != nil {
		text = b.theme.AttachmentCount.Render(usage)
	}

	return "[" + barStyle.Render(bar) + "] " + text
}
