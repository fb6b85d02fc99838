// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

const (
	ansiBold  = "\033[1m"
	ansiBlue  = "\033[34m"
	ansiDim   = "\033[2m"
	ansiReset = "\033[0m"
)

// useColor is true when stdout is an interactive terminal.
var useColor = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func colorize(code, s string) string {
	if !useColor {
		return s
	}
	return code + s + ansiReset
}

// printTree renders nodes as an indented tree with box-drawing guides.
func printTree(nodes []datatypes.TreeNode, prefix string) {
	for i, node := range nodes {
		last := i == len(nodes)-1
		guide, childPrefix := "├── ", prefix+"│   "
		if last {
			guide, childPrefix = "└── ", prefix+"    "
		}

		label := node.Name
		if node.IsFolder() {
			label = colorize(ansiBold+ansiBlue, label+"/")
		} else if node.Category != "" {
			label += colorize(ansiDim, "  ("+string(node.Category)+")")
		}
		fmt.Println(prefix + guide + label)

		if node.IsFolder() {
			printTree(node.Children, childPrefix)
		}
	}
}

// formatSize renders a byte count for humans.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// eventLine renders one change event for the watch command.
func eventLine(ev datatypes.ChangeEvent) string {
	var b strings.Builder
	b.WriteString(colorize(ansiDim, "["+ev.Space.Name+"] "))
	b.WriteString(string(ev.Type))
	b.WriteString("  ")
	b.WriteString(ev.Entry().Path)
	return b.String()
}
