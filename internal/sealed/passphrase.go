// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

// PassphraseEnv names the environment variable consulted when no passphrase
// flag is given.
const PassphraseEnv = "LORECTL_PASSPHRASE"

// Passphrase returns the first of flag, $LORECTL_PASSPHRASE or an interactive
// prompt that yields a value.
func Passphrase(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(PassphraseEnv); env != "" {
		return env, nil
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no passphrase and stdin is not a terminal")
	}
	return Prompt()
}

// Prompt reads a passphrase from the terminal without echoing input.
func Prompt() (string, error) {
	var password []byte
	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, os.Interrupt)
	defer signal.Stop(signalChannel)

	oldState, err := term.MakeRaw(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	defer term.Restore(int(syscall.Stdin), oldState) //nolint:errcheck

	fmt.Fprint(os.Stderr, "Enter passphrase: ")
	defer fmt.Fprint(os.Stderr, "\r")

loop:
	for {
		select {
		case <-signalChannel:
			fmt.Fprintln(os.Stderr, "\nInterrupt received, exiting...")
			return "", fmt.Errorf("interrupted")
		default:
			var buf [1]byte
			n, readErr := syscall.Read(syscall.Stdin, buf[:])
			if readErr != nil || n == 0 {
				break loop
			}
			switch buf[0] {
			case '\n', '\r':
				break loop
			case 3: // ctrl+c in raw mode
				return "", fmt.Errorf("interrupted")
			case 127, 8:
				if len(password) > 0 {
					password = password[:len(password)-1]
					fmt.Fprint(os.Stderr, "\b \b")
				}
			default:
				password = append(password, buf[0])
				fmt.Fprint(os.Stderr, "*")
			}
		}
	}
	fmt.Fprintln(os.Stderr)
	return string(password), nil
}
