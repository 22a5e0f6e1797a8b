package commands

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var errPasswordRequired = errors.New("password required (use --password or pipe it on stdin)")

// passwordInput hands out passwords from flags, falling back to successive
// lines of a reader. One line is consumed per missing flag value.
type passwordInput struct {
	sc *bufio.Scanner
}

func newPasswordInput(in io.Reader) *passwordInput {
	if in == nil {
		return &passwordInput{}
	}
	return &passwordInput{sc: bufio.NewScanner(in)}
}

// next returns flagValue when given, otherwise the next line of input.
// It returns errPasswordRequired when neither yields a password.
func (p *passwordInput) next(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if p.sc == nil {
		return "", errPasswordRequired
	}
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", errPasswordRequired
	}
	pw := strings.TrimRight(p.sc.Text(), "\r")
	if pw == "" {
		return "", errPasswordRequired
	}
	return pw, nil
}

// readPassword returns flagValue when given, otherwise the first line of in.
func readPassword(flagValue string, in io.Reader) (string, error) {
	return newPasswordInput(in).next(flagValue)
}
