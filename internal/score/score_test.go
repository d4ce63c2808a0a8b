// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   types.ScoreVector
		wantOK bool
	}{
		{
			name:   "five fields",
			input:  "5:1:0:0:2",
			want:   types.ScoreVector{"R": 5, "T": 1, "SF": 0, "E": 0, "SM": 2},
			wantOK: true,
		},
		{
			name:   "surrounding whitespace",
			input:  " 1 : 2:3:4: 5 ",
			want:   types.ScoreVector{"R": 1, "T": 2, "SF": 3, "E": 4, "SM": 5},
			wantOK: true,
		},
		{name: "three fields", input: "1:2:3", want: Zero()},
		{name: "two fields", input: "9:9", want: Zero()},
		{name: "six fields", input: "1:1:1:1:1:1", want: Zero()},
		{name: "non numeric", input: "1:x:0:0:2", want: Zero()},
		{name: "empty", input: "", want: Zero()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProject(t *testing.T) {
	parsed, ok := Parse("5:1:0:0:2")
	assert.True(t, ok)

	got := Project(parsed, []string{"R", "SF", "SM", "TG", "TT"}, "TG")
	assert.Equal(t, types.ScoreVector{"R": 5, "SF": 0, "SM": 2, "TG": 1, "TT": 0}, got)
}

func TestProjectWithoutWorkDimension(t *testing.T) {
	parsed, _ := Parse("0:3:0:0:0")
	got := Project(parsed, []string{"R"}, "TG")
	assert.Equal(t, types.ScoreVector{"R": 0}, got)
}
