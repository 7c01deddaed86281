// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionsTable_NoDuplicateEdges(t *testing.T) {
	seen := make(map[string]bool)
	for _, tr := range transitionsTable {
		key := string(tr.From) + "|" + string(tr.Event)
		require.False(t, seen[key], "duplicate edge %s", key)
		seen[key] = true
	}
}

func TestTransitionsTable_HappyPath(t *testing.T) {
	path := []struct {
		ev   EventKind
		want State
	}{
		{EvCheckRequested, StateChecking},
		{EvSpotChecked, StateReserving},
		{EvReserved, StateReserved},
		{EvPaymentStarted, StateProcessing},
		{EvPaid, StateCompleted},
	}
	state := StateIdle
	for _, step := range path {
		tr, ok := TransitionFor(state, step.ev)
		require.True(t, ok, "%s from %s", step.ev, state)
		assert.Equal(t, step.want, tr.To)
		state = tr.To
	}
}

func TestTransitionsTable_RecoveryEdges(t *testing.T) {
	for _, from := range []State{StateError, StateWaitingList} {
		tr, ok := TransitionFor(from, EvCheckRequested)
		require.True(t, ok, from)
		assert.Equal(t, StateChecking, tr.To)
	}
}

func TestTransitionsTable_ActiveStatesCanFail(t *testing.T) {
	for _, from := range []State{StateChecking, StateReserving, StateProcessing} {
		tr, ok := TransitionFor(from, EvFailed)
		require.True(t, ok, from)
		assert.Equal(t, StateError, tr.To)
	}
}

func TestTransitionsTable_Forbidden(t *testing.T) {
	forbidden := []struct {
		from State
		ev   EventKind
	}{
		{StateReserved, EvCheckRequested},
		{StateCompleted, EvCheckRequested},
		{StateIdle, EvReserved},
		{StateChecking, EvReserved},
		{StateWaitingList, EvPaymentStarted},
		{StateChecking, EvCancelled},
		{StateProcessing, EvCancelled},
		{StateIdle, EvFailed},
	}
	for _, tc := range forbidden {
		_, ok := TransitionFor(tc.from, tc.ev)
		assert.False(t, ok, "%s from %s should be forbidden", tc.ev, tc.from)
	}
}
