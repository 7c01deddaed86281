// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// SPDX-License-Identifier: MIT

// Package snapshot exports a held reservation to disk so an operator can
// pick it up after the CLI exits.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/google/renameio/v2"
)

// ErrEmptyRecord is returned when the record carries no spot reference.
var ErrEmptyRecord = errors.New("snapshot: record has no spot id")

// Document is the on-disk format.
type Document struct {
	Version    int                           `json:"version"`
	FlowID     string                        `json:"flowId,omitempty"`
	Record     reservation.ReservationRecord `json:"record"`
	ExportedAt time.Time                     `json:"exportedAt"`
}

const currentVersion = 1

// Write atomically replaces path with a JSON export of rec.
func Write(ctx context.Context, path, flowID string, rec reservation.ReservationRecord) error {
	if rec.SpotID == "" {
		return ErrEmptyRecord
	}
	logger := xglog.WithComponentFromContext(ctx, "snapshot")

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o600))
	if err != nil {
		return fmt.Errorf("create pending snapshot file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending snapshot file")
		}
	}()

	doc := Document{
		Version:    currentVersion,
		FlowID:     flowID,
		Record:     rec,
		ExportedAt: time.Now().UTC(),
	}
	enc := json.NewEncoder(pendingFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace snapshot file: %w", err)
	}
	logger.Info().
		Str(xglog.FieldEvent, "snapshot.written").
		Str(xglog.FieldSpotID, rec.SpotID).
		Str("path", path).
		Msg("reservation exported")
	return nil
}

// Read loads a document written by Write.
func Read(path string) (Document, error) {
	// #nosec G304 -- path is operator-provided
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return Document{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Version != currentVersion {
		return Document{}, fmt.Errorf("snapshot: unsupported version %d", doc.Version)
	}
	return doc, nil
}
