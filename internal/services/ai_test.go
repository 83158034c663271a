package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratedTasks(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `[{"title":"Call mom","due_date":"2026-10-19T18:00:00Z"},{"title":"Buy milk","due_date":null}]`,
			want:    []string{"Call mom", "Buy milk"},
		},
		{
			name:    "fenced json",
			content: "```json\n[{\"title\":\"Water plants\",\"due_date\":null}]\n```",
			want:    []string{"Water plants"},
		},
		{
			name:    "empty array",
			content: "[]",
			want:    []string{},
		},
		{
			name:    "prose",
			content: "Sure! Here are your tasks.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := parseGeneratedTasks(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			titles := make([]string, 0, len(tasks))
			for _, task := range tasks {
				titles = append(titles, task.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestParseGeneratedTasks_DueDate(t *testing.T) {
	tasks, err := parseGeneratedTasks(`[{"title":"Ship","due_date":"2026-10-19T18:00:00Z"}]`)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, 19, tasks[0].DueDate.Day())
}
