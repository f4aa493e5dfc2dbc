// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It wires the terminal UI, the sync engine and the background connectivity
// worker into a single process lifecycle bound to one session.
package client
