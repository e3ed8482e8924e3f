package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the default config path at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("APPDATA", dir)
	return dir
}

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "input.hex")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func isUsage(err error) bool {
	var uerr *usageError
	return errors.As(err, &uerr)
}

func TestRunAttest(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "0588960d73d71901 03 f7ef15\n")

	var out bytes.Buffer
	if err := run("attest", []string{path}, &out); err != nil {
		t.Fatalf("attest failed: %v", err)
	}
	if !strings.Contains(out.String(), "BitcoinBlockHeaderAttestation(358391)") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestRunAttestStrict(t *testing.T) {
	dir := isolate(t)
	// pending attestation with URI "a b"
	path := writeInput(t, dir, "83dfe30d2ef90c8e 04 03612062")

	var out bytes.Buffer
	if err := run("attest", []string{path}, &out); err != nil {
		t.Fatalf("lenient attest failed: %v", err)
	}
	if !strings.Contains(out.String(), "REJECTED") {
		t.Errorf("expected rejection in output: %s", out.String())
	}

	out.Reset()
	err := run("attest", []string{"-strict", path}, &out)
	if err == nil {
		t.Fatal("expected strict failure")
	}
	if isUsage(err) {
		t.Errorf("content failure reported as usage error: %v", err)
	}
}

func TestRunOps(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "08 f0 02 00ff f2")

	var out bytes.Buffer
	if err := run("ops", []string{path}, &out); err != nil {
		t.Fatalf("ops failed: %v", err)
	}
	for _, want := range []string{"sha256", "append 00ff", "reverse"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q: %s", want, out.String())
		}
	}
}

func TestRunDigest(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "")

	var out bytes.Buffer
	if err := run("digest", []string{"-chain", "sha256,ripemd160", path}, &out); err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	if !strings.Contains(out.String(), "result b472a266d0bd89c13706a4132ccfb16f7c3b9fcb") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestRunUsageErrors(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "")

	cases := []struct {
		name string
		cmd  string
		args []string
	}{
		{"unknown command", "frobnicate", nil},
		{"missing file", "ops", nil},
		{"bad flag", "attest", []string{"-nope", path}},
		{"bad chain", "digest", []string{"-chain", "md5", path}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := run(tc.cmd, tc.args, &bytes.Buffer{})
			if !isUsage(err) {
				t.Errorf("expected usage error, got %v", err)
			}
		})
	}
}

func TestRunMissingInput(t *testing.T) {
	dir := isolate(t)

	err := run("ops", []string{filepath.Join(dir, "absent.hex")}, &bytes.Buffer{})
	if err == nil || isUsage(err) {
		t.Errorf("expected input failure, got %v", err)
	}
}
