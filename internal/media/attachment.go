// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package media loads and validates chat attachments.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/uplink-tui/internal/protocol"
	"github.com/jeranaias/uplink-tui/internal/util"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// Sentinel errors for easy checking.
var (
	// ErrUnsupportedType is returned for files that are neither image/* nor video/*.
	ErrUnsupportedType = errors.New("unsupported attachment type")

	// ErrEmptyFile is returned for zero-byte files.
	ErrEmptyFile = errors.New("attachment file is empty")
)

// TooLargeError is returned when a file exceeds the attachment size limit.
// The check runs against the file size on disk before any bytes are read.
type TooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("attachment %s is %s, limit is %s",
		filepath.Base(e.Path), util.FormatBytes(e.Size), util.FormatBytes(e.Limit))
}

// IsTooLarge reports whether err is a TooLargeError.
func IsTooLarge(err error) bool {
	var target *TooLargeError
	return errors.As(err, &target)
}

// =============================================================================
// ATTACHMENT
// =============================================================================

// DefaultLimit is the attachment size cap when config does not override it.
const DefaultLimit = 10 << 20 // 10 MiB

// Kind is the coarse attachment category the protocol distinguishes.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Attachment is a staged outbound media item.
type Attachment struct {
	// Kind is "image" or "video".
	Kind Kind

	// MediaType is the full MIME type, e.g. "image/png".
	MediaType string

	// Name is the base name of the source file, for display only.
	Name string

	// Size is the raw file size in bytes (before base64 expansion).
	Size int64

	// Data is the standard base64 encoding of the file bytes.
	Data string
}

// FromFile stages a file as an attachment. The size limit is enforced from
// file metadata before the body is read, so oversized files cost one stat.
func FromFile(path string, limit int64) (Attachment, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	info, err := os.Stat(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return Attachment{}, fmt.Errorf("attachment %s: %w", filepath.Base(path), ErrUnsupportedType)
	}
	if info.Size() == 0 {
		return Attachment{}, fmt.Errorf("attachment %s: %w", filepath.Base(path), ErrEmptyFile)
	}
	if info.Size() > limit {
		return Attachment{}, &TooLargeError{Path: path, Size: info.Size(), Limit: limit}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("read attachment: %w", err)
	}

	mediaType := detectMediaType(path, data)
	kind, ok := kindOf(mediaType)
	if !ok {
		return Attachment{}, fmt.Errorf("attachment %s (%s): %w", filepath.Base(path), mediaType, ErrUnsupportedType)
	}

	return Attachment{
		Kind:      kind,
		MediaType: mediaType,
		Name:      filepath.Base(path),
		Size:      info.Size(),
		Data:      base64.StdEncoding.EncodeToString(data),
	}, nil
}

// detectMediaType resolves the MIME type from the file extension first and
// falls back to content sniffing when the extension is unknown.
func detectMediaType(path string, data []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		// TypeByExtension can carry parameters ("text/html; charset=utf-8").
		if idx := strings.IndexByte(byExt, ';'); idx >= 0 {
			byExt = strings.TrimSpace(byExt[:idx])
		}
		return byExt
	}
	sniffed := http.DetectContentType(data)
	if idx := strings.IndexByte(sniffed, ';'); idx >= 0 {
		sniffed = strings.TrimSpace(sniffed[:idx])
	}
	return sniffed
}

// kindOf maps a MIME type to the protocol's coarse kind.
func kindOf(mediaType string) (Kind, bool) {
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return KindImage, true
	case strings.HasPrefix(mediaType, "video/"):
		return KindVideo, true
	default:
		return "", false
	}
}

// Label returns a short display string for the attachment bar, e.g.
// "shot.png (image, 1.2 MB)".
func (a Attachment) Label() string {
	return fmt.Sprintf("%s (%s, %s)", a.Name, a.Kind, util.FormatBytes(a.Size))
}

// Payload converts the attachment to its wire form.
func (a Attachment) Payload() protocol.MediaPayload {
	return protocol.MediaPayload{
		Type:      string(a.Kind),
		MediaType: a.MediaType,
		Data:      a.Data,
	}
}

// Payloads converts a staged attachment list to wire form.
func Payloads(atts []Attachment) []protocol.MediaPayload {
	if len(atts) == 0 {
		return nil
	}
	out := make([]protocol.MediaPayload, 0, len(atts))
	for _, a := range atts {
		out = append(out, a.Payload())
	}
	return out
}

// TotalSize sums the raw byte sizes of the staged attachments. The send path
// checks this against the limit so several small files cannot add up past it.
func TotalSize(atts []Attachment) int64 {
	var total int64
	for _, a := range atts {
		total += a.Size
	}
	return total
}
