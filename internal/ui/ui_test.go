package ui

import (
	"bytes"
	"strings"
	"testing"
)

func newTestUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	u := New(out, errOut)
	return u, out, errOut
}

func TestNew_NonTTY(t *testing.T) {
	u, _, _ := newTestUI()
	if u.IsTTY() {
		t.Error("expected IsTTY() to be false for bytes.Buffer")
	}
}

func TestSay(t *testing.T) {
	u, out, _ := newTestUI()
	u.Say("Deploying Container Development")
	if got := out.String(); got != "Deploying Container Development\n" {
		t.Errorf("Say output = %q", got)
	}
}

func TestSayf(t *testing.T) {
	u, out, _ := newTestUI()
	u.Sayf("stopping %s", "darp_work_api")
	if got := out.String(); got != "stopping darp_work_api\n" {
		t.Errorf("Sayf output = %q", got)
	}
}

func TestSuccess(t *testing.T) {
	u, out, _ := newTestUI()
	u.Success("proxy reloaded")
	got := out.String()
	// Non-TTY uses "ok" prefix.
	if !strings.Contains(got, "  ok proxy reloaded") {
		t.Errorf("Success output = %q, want to contain %q", got, "  ok proxy reloaded")
	}
}

func TestError(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Error("something failed")
	got := errOut.String()
	if !strings.Contains(got, "error: something failed") {
		t.Errorf("Error output = %q, want to contain %q", got, "error: something failed")
	}
}

func TestWarn(t *testing.T) {
	u, out, errOut := newTestUI()
	u.Warn("could not reload proxy")
	if !strings.Contains(errOut.String(), "warning: could not reload proxy") {
		t.Errorf("Warn output = %q", errOut.String())
	}
	if out.Len() != 0 {
		t.Errorf("Warn wrote to stdout: %q", out.String())
	}
}

func TestColors_NonTTY(t *testing.T) {
	u, _, _ := newTestUI()
	// No ANSI escapes when the output is not a terminal.
	for _, got := range []string{u.Green("x"), u.Cyan("x"), u.Blue("x"), u.Red("x")} {
		if got != "x" {
			t.Errorf("color helper = %q, want plain %q", got, "x")
		}
	}
}

func TestDecorateHelp(t *testing.T) {
	u, _, _ := newTestUI()

	if got := u.DecorateHelp("deploys the environment", nil); got != "deploys the environment" {
		t.Errorf("DecorateHelp with no requirements = %q", got)
	}

	got := u.DecorateHelp("starts a shell instance", []string{"deploy", "init"})
	want := "starts a shell instance ( 'deploy' 'init' )"
	if got != want {
		t.Errorf("DecorateHelp = %q, want %q", got, want)
	}
}
