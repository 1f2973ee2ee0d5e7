// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
	"time"
)

func TestFriendlyTime(t *testing.T) {
	now := time.Now()

	if got := friendlyTime(now); !strings.HasPrefix(got, "Today ") {
		t.Errorf("friendlyTime(now) = %q, want Today prefix", got)
	}

	yesterday := now.Add(-24 * time.Hour)
	if got := friendlyTime(yesterday); !strings.HasPrefix(got, "Yesterday ") {
		t.Errorf("friendlyTime(yesterday) = %q, want Yesterday prefix", got)
	}

	lastWeek := now.AddDate(0, 0, -7)
	got := friendlyTime(lastWeek)
	if strings.HasPrefix(got, "Today") || strings.HasPrefix(got, "Yesterday") {
		t.Errorf("friendlyTime(last week) = %q, want a short date", got)
	}
}
