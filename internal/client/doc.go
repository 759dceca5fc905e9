// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client assembles the sync engine into a single entry point.
//
// A [Client] is built from a validated configuration. It loads the model
// definition, prepares the staging directory and the attempt journal, and
// after [Client.Authenticate] exposes full and differential syncs, their
// background variants and conflict history reads.
package client
