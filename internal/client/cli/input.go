package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline prints a prompt to w and reads multiple lines until an empty
// line is entered (i.e., the user presses Enter twice). The trailing newline
// on each line is trimmed and the collected text is joined with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// wipe zeroes a secret in place.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ask reads one line, re-prompting until validate accepts it. A non-empty
// def is shown in brackets and returned for empty input.
func (a *App) ask(prompt, def string, validate func(string) error) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	for {
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return "", err
		}
		if v == "" {
			v = def
		}
		if validate == nil {
			return v, nil
		}
		if err := validate(v); err != nil {
			a.printer.Warn("%v", err)
			continue
		}
		return v, nil
	}
}

// askRating reads a 1..5 rating.
func (a *App) askRating(prompt string, def int) (int, error) {
	d := ""
	if def != 0 {
		d = strconv.Itoa(def)
	}
	v, err := a.ask(prompt+" (1-5)", d, validateRating)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

// askConfirm reads a yes/no answer; anything but y/yes is no.
func (a *App) askConfirm(prompt string) (bool, error) {
	v, err := getSimpleText(a.reader, prompt+" [y/N]", a.out)
	if err != nil {
		return false, err
	}
	v = strings.ToLower(v)
	return v == "y" || v == "yes", nil
}

// askPassword reads a password until it satisfies validate.
func (a *App) askPassword(validate func([]byte) error) ([]byte, error) {
	for {
		pw, err := getPassword(a.out)
		if err != nil {
			return nil, err
		}
		if validate == nil {
			return pw, nil
		}
		if err := validate(pw); err != nil {
			wipe(pw)
			a.printer.Warn("%v", err)
			continue
		}
		return pw, nil
	}
}

// splitTags parses a comma separated tag list.
func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
