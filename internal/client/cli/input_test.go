package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrathesheriff/stackrail/internal/client/console"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}

	_, err = GetSimpleText(in, "Name?", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("a\nb\n\n\n"))
	var out bytes.Buffer
	got, err := GetMultiline(in, "Enter text", &out)
	if err != nil {
		t.Fatal(err)
	}
	want := "a\nb"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func promptApp(input string) (*App, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &App{
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     &out,
		printer: console.NewPrinter(&out, &errOut),
	}, &errOut
}

func TestAsk(t *testing.T) {
	t.Run("retries until valid", func(t *testing.T) {
		a, errOut := promptApp("not-an-email\nada@b.co\n")
		got, err := a.ask("Email", "", validateEmail)
		require.NoError(t, err)
		assert.Equal(t, "ada@b.co", got)
		assert.Contains(t, errOut.String(), "not a valid email")
	})

	t.Run("empty input takes default", func(t *testing.T) {
		a, _ := promptApp("\n")
		got, err := a.ask("Title", "keep me", validateRequired)
		require.NoError(t, err)
		assert.Equal(t, "keep me", got)
	})

	t.Run("eof while invalid", func(t *testing.T) {
		a, _ := promptApp("9\n")
		_, err := a.askRating("Complexity", 0)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("rating default", func(t *testing.T) {
		a, _ := promptApp("\n")
		got, err := a.askRating("Complexity", 4)
		require.NoError(t, err)
		assert.Equal(t, 4, got)
	})
}

func TestAskConfirm(t *testing.T) {
	for in, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "maybe\n": false} {
		a, _ := promptApp(in)
		got, err := a.askConfirm("Sure?")
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestAskPassword(t *testing.T) {
	pws := [][]byte{[]byte("short"), []byte("long enough")}
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) {
		pw := pws[0]
		pws = pws[1:]
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })

	a, errOut := promptApp("")
	got, err := a.askPassword(validatePassword)
	require.NoError(t, err)
	assert.Equal(t, "long enough", string(got))
	assert.Contains(t, errOut.String(), "at least 8")
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateUsername("ada99"))
	assert.Error(t, validateUsername("ada_99"))
	assert.Error(t, validateUsername("adé"))
	assert.NoError(t, validateOTP("012345"))
	assert.Error(t, validateOTP("12345"))
	assert.Error(t, validateOTP("12a456"))
	assert.NoError(t, validateRating("5"))
	assert.Error(t, validateRating("0"))
	assert.NoError(t, validateStatus("in-progress"))
	assert.NoError(t, validateStatus("3"))
	assert.Error(t, validateStatus("done"))
	assert.NoError(t, validateName("Mary-Jane"))
	assert.Error(t, validateName("R2D2"))
	assert.Error(t, validateEmail("Ada <ada@b.co>"))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"ui", "bug"}, splitTags(" ui, ,bug "))
	assert.Nil(t, splitTags(""))
}
