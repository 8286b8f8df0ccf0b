package config

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		threshold string
		ordering  string
		want      *Config
		wantErr   bool
	}{
		{
			name: "defaults",
			want: &Config{BunchingThreshold: time.Second, Ordering: OrderingGC},
		},
		{
			name:      "legacy threshold",
			threshold: "60s",
			ordering:  "points",
			want:      &Config{BunchingThreshold: time.Minute, Ordering: OrderingPoints},
		},
		{name: "bad threshold", threshold: "abc", wantErr: true},
		{name: "negative threshold", threshold: "-1s", wantErr: true},
		{name: "bad ordering", ordering: "alpha", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			BunchingThreshold = tt.threshold
			Ordering = tt.ordering
			got, err := Resolve()
			if tt.wantErr {
				assert.Assert(t, err != nil)
				return
			}
			assert.NilError(t, err)
			assert.DeepEqual(t, tt.want, got)
		})
	}
}
