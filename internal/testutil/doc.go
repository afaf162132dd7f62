// SPDX-License-Identifier: MPL-2.0

// Package testutil holds helpers shared by mx tests: guards for tests that
// start real interpreters and fixtures for task documents.
package testutil
