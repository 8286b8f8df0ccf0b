package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
)

func TestCheckSnapshotVersion(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
		current  string
		wantErr  bool
	}{
		{name: "same", snapshot: "v0.1.0", current: "v0.1.0"},
		{name: "older", snapshot: "v0.1.0", current: "v0.3.2"},
		{name: "without prefix", snapshot: "1.2.0", current: "v1.4.0"},
		{name: "newer", snapshot: "v0.2.0", current: "v0.1.0", wantErr: true},
		{name: "other major", snapshot: "v1.0.0", current: "v2.0.0", wantErr: true},
		{name: "invalid", snapshot: "abc", current: "v0.1.0", wantErr: true},
		{name: "empty", snapshot: "", current: "v0.1.0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSnapshotVersion(tt.snapshot, tt.current)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrIncompatibleSnapshot)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
