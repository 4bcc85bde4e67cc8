/*
Copyright 2025 The YisCore Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package utils

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		// not a tty (piped into a log file), use a fixed width
		return 80
	}
	return width
}

// PrintTitle prints text centered in a padded rule, e.g.
// "----- Launch Summary -----".
func PrintTitle(text, paddingChar string) {
	width := terminalWidth()
	padding := width - len(text)
	if padding <= 0 {
		fmt.Println(text)
		return
	}
	left := strings.Repeat(paddingChar, padding/2)
	right := strings.Repeat(paddingChar, padding-padding/2)
	fmt.Println(left + text + right)
}
