// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package media loads and validates chat attachments.
//
// Attachments travel inside the outbound message frame as base64 payloads.
// Only images and videos are accepted; anything else is rejected before it
// is read. Files over the configured size limit fail fast with a typed
// *TooLargeError so the UI can tell the user the exact limit.
//
// # Usage
//
//	att, err := media.FromFile("shot.png", media.DefaultLimit)
//	var tooBig *media.TooLargeError
//	if errors.As(err, &tooBig) {
//		// show tooBig.Limit to the user
//	}
package media
