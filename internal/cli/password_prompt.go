package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

var errNoTerminal = errors.New("stdin unavailable")

// readPasswordNoEcho turns terminal echo off for one line read from stdin.
func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errNoTerminal
	}

	restore, err := disableEcho(stdin)
	if err != nil {
		return nil, err
	}
	defer restore()

	return readSecretLine(stdin)
}

func readSecretLine(reader io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
