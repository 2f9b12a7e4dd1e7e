// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package media loads and validates chat attachments.
package media

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pngHeader is the 8-byte PNG signature plus a little padding so content
// sniffing has something to chew on.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestFromFile_Image(t *testing.T) {
	path := writeTempFile(t, "shot.png", pngHeader)

	att, err := FromFile(path, DefaultLimit)
	if err != nil {
		t.Fatalf("FromFile error: %v", err)
	}

	if att.Kind != KindImage {
		t.Errorf("Kind = %q, want %q", att.Kind, KindImage)
	}
	if att.MediaType != "image/png" {
		t.Errorf("MediaType = %q, want image/png", att.MediaType)
	}
	if att.Name != "shot.png" {
		t.Errorf("Name = %q, want shot.png", att.Name)
	}
	if att.Size != int64(len(pngHeader)) {
		t.Errorf("Size = %d, want %d", att.Size, len(pngHeader))
	}

	decoded, err := base64.StdEncoding.DecodeString(att.Data)
	if err != nil {
		t.Fatalf("Data is not valid base64: %v", err)
	}
	if string(decoded) != string(pngHeader) {
		t.Error("decoded data does not match file contents")
	}
}

func TestFromFile_VideoByExtension(t *testing.T) {
	path := writeTempFile(t, "clip.mp4", []byte("not really mp4 bytes"))

	att, err := FromFile(path, DefaultLimit)
	if err != nil {
		t.Fatalf("FromFile error: %v", err)
	}
	if att.Kind != KindVideo {
		t.Errorf("Kind = %q, want %q", att.Kind, KindVideo)
	}
	if !strings.HasPrefix(att.MediaType, "video/") {
		t.Errorf("MediaType = %q, want video/*", att.MediaType)
	}
}

func TestFromFile_SniffWithoutExtension(t *testing.T) {
	path := writeTempFile(t, "noext", pngHeader)

	att, err := FromFile(path, DefaultLimit)
	if err != nil {
		t.Fatalf("FromFile error: %v", err)
	}
	if att.MediaType != "image/png" {
		t.Errorf("MediaType = %q, want image/png from sniffing", att.MediaType)
	}
}

func TestFromFile_TooLarge(t *testing.T) {
	data := make([]byte, 128)
	copy(data, pngHeader)
	path := writeTempFile(t, "big.png", data)

	_, err := FromFile(path, 64)
	if err == nil {
		t.Fatal("expected TooLargeError, got nil")
	}

	var tooBig *TooLargeError
	if !errors.As(err, &tooBig) {
		t.Fatalf("error = %v, want *TooLargeError", err)
	}
	if tooBig.Size != 128 || tooBig.Limit != 64 {
		t.Errorf("TooLargeError = %+v, want Size 128 Limit 64", tooBig)
	}
	if !IsTooLarge(err) {
		t.Error("IsTooLarge should recognize the error")
	}
	if !strings.Contains(tooBig.Error(), "big.png") {
		t.Errorf("error message should name the file: %q", tooBig.Error())
	}
}

func TestFromFile_ZeroLimitUsesDefault(t *testing.T) {
	path := writeTempFile(t, "shot.png", pngHeader)

	if _, err := FromFile(path, 0); err != nil {
		t.Errorf("FromFile with limit 0 should fall back to DefaultLimit: %v", err)
	}
}

func TestFromFile_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    []byte
		wantErr error
	}{
		{"text file", "notes.txt", []byte("plain text"), ErrUnsupportedType},
		{"empty file", "empty.png", []byte{}, ErrEmptyFile},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, tc.file, tc.data)
			_, err := FromFile(path, DefaultLimit)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("FromFile error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestFromFile_MissingFile(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.png"), DefaultLimit)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestFromFile_Directory(t *testing.T) {
	dir := t.TempDir()
	_, err := FromFile(dir, DefaultLimit)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("FromFile(dir) error = %v, want ErrUnsupportedType", err)
	}
}

func TestPayloadConversion(t *testing.T) {
	att := Attachment{
		Kind:      KindImage,
		MediaType: "image/jpeg",
		Name:      "photo.jpg",
		Size:      42,
		Data:      "aGk=",
	}

	p := att.Payload()
	if p.Type != "image" || p.MediaType != "image/jpeg" || p.Data != "aGk=" {
		t.Errorf("Payload = %+v", p)
	}

	list := Payloads([]Attachment{att, att})
	if len(list) != 2 {
		t.Errorf("Payloads returned %d items, want 2", len(list))
	}
	if Payloads(nil) != nil {
		t.Error("Payloads(nil) should be nil so the frame omits media")
	}
}

func TestTotalSize(t *testing.T) {
	atts := []Attachment{{Size: 100}, {Size: 250}, {Size: 1}}
	if got := TotalSize(atts); got != 351 {
		t.Errorf("TotalSize = %d, want 351", got)
	}
	if got := TotalSize(nil); got != 0 {
		t.Errorf("TotalSize(nil) = %d, want 0", got)
	}
}

func TestLabel(t *testing.T) {
	att := Attachment{Kind: KindImage, Name: "shot.png", Size: 1536}
	label := att.Label()
	if !strings.Contains(label, "shot.png") || !strings.Contains(label, "image") || !strings.Contains(label, "1.5 KB") {
		t.Errorf("Label = %q", label)
	}
}
