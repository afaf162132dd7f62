// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the mx command-line interface.
package cmd
