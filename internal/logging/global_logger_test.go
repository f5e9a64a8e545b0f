// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logging

import (
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func formatEntry(t *testing.T, entry *log.Entry) string {
	t.Helper()
	out, err := (&LogFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	return string(out)
}

func TestLogFormatterBasic(t *testing.T) {
	entry := &log.Entry{
		Logger:  log.StandardLogger(),
		Time:    time.Date(2026, 8, 31, 9, 14, 4, 0, time.UTC),
		Level:   log.InfoLevel,
		Message: "hello world\n",
		Data:    log.Fields{},
	}

	got := formatEntry(t, entry)
	if !strings.HasPrefix(got, "[2026-08-31 09:14:04] [--------] [info ] hello world") {
		t.Errorf("unexpected format: %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("formatted entry must end with a newline")
	}
}

func TestLogFormatterRequestID(t *testing.T) {
	entry := &log.Entry{
		Logger:  log.StandardLogger(),
		Time:    time.Date(2026, 8, 31, 9, 14, 4, 0, time.UTC),
		Level:   log.WarnLevel,
		Message: "slow request",
		Data:    log.Fields{"request_id": "a1b2c3d4"},
	}

	got := formatEntry(t, entry)
	if !strings.Contains(got, "[a1b2c3d4]") {
		t.Errorf("request id missing: %q", got)
	}
	if !strings.Contains(got, "[warn ]") {
		t.Errorf("warning level not shortened: %q", got)
	}
	if strings.Contains(got, "|") {
		t.Errorf("request_id must not render as a trailing field: %q", got)
	}
}

func TestLogFormatterExtraFields(t *testing.T) {
	entry := &log.Entry{
		Logger:  log.StandardLogger(),
		Time:    time.Date(2026, 8, 31, 9, 14, 4, 0, time.UTC),
		Level:   log.InfoLevel,
		Message: "selected",
		Data:    log.Fields{"request_id": "a1b2c3d4", "model": "sonar-pro"},
	}

	got := formatEntry(t, entry)
	if !strings.Contains(got, "| model=sonar-pro") {
		t.Errorf("extra field missing: %q", got)
	}
}
