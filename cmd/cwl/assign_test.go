package main

import (
	"strings"
	"testing"
	"time"

	"github.com/sndworks/crewline/internal/assignment"
	"github.com/sndworks/crewline/internal/dateutil"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dateutil.Parse(s)
	if err != nil {
		t.Fatalf("parse day %q: %v", s, err)
	}
	return d
}

func TestParseKindAndID(t *testing.T) {
	tests := []struct {
		args     []string
		wantKind assignment.ResourceKind
		wantID   uint
		wantErr  bool
	}{
		{args: []string{"equipment", "7"}, wantKind: assignment.KindEquipment, wantID: 7},
		{args: []string{"employee", "123"}, wantKind: assignment.KindEmployee, wantID: 123},
		{args: []string{"vehicle", "7"}, wantErr: true},
		{args: []string{"equipment", "abc"}, wantErr: true},
	}
	for _, tt := range tests {
		kind, id, err := parseKindAndID(tt.args)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseKindAndID(%v): expected error", tt.args)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseKindAndID(%v): %v", tt.args, err)
			continue
		}
		if kind != tt.wantKind || id != tt.wantID {
			t.Errorf("parseKindAndID(%v) = (%s, %d), want (%s, %d)",
				tt.args, kind, id, tt.wantKind, tt.wantID)
		}
	}
}

func TestMetadataFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   assignCreateFlags
		want    assignment.Context
		wantErr bool
	}{
		{
			name:  "rental",
			flags: assignCreateFlags{context: "rental", rentalID: 5},
			want:  assignment.ContextRental,
		},
		{
			name:  "project",
			flags: assignCreateFlags{context: "project", projectID: 9},
			want:  assignment.ContextProject,
		},
		{
			name:  "manual",
			flags: assignCreateFlags{context: "manual", name: "Yard duty"},
			want:  assignment.ContextManual,
		},
		{
			name:    "unknown",
			flags:   assignCreateFlags{context: "lease"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := metadataFromFlags(&tt.flags)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("metadataFromFlags: %v", err)
			}
			if meta.Context() != tt.want {
				t.Errorf("context = %s, want %s", meta.Context(), tt.want)
			}
		})
	}
}

func TestOptID(t *testing.T) {
	if optID(0) != nil {
		t.Error("optID(0) should be nil")
	}
	p := optID(4)
	if p == nil || *p != 4 {
		t.Errorf("optID(4) = %v, want pointer to 4", p)
	}
}

func TestFormatRecordLine(t *testing.T) {
	start := mustDay(t, "2024-01-10")
	end := mustDay(t, "2024-01-31")

	open := formatRecordLine(3, "rental", start, nil, "active")
	if !strings.Contains(open, "open") || !strings.Contains(open, "2024-01-10") {
		t.Errorf("open line = %q", open)
	}
	closed := formatRecordLine(3, "rental", start, &end, "completed")
	if !strings.Contains(closed, "2024-01-31") || !strings.Contains(closed, "completed") {
		t.Errorf("closed line = %q", closed)
	}
}
