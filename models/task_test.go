// File: models/task_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuadrant(t *testing.T) {
	tests := []struct {
		name      string
		relevance int
		urgency   int
		want      string
	}{
		{"important and urgent", 5, 5, "Q1"},
		{"important only", 4, 2, "Q2"},
		{"urgent only", 2, 4, "Q3"},
		{"neither", 1, 1, "Q4"},
		{"threshold is inclusive", 3, 3, "Q1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Relevance: tt.relevance, Urgency: tt.urgency}
			assert.Equal(t, tt.want, task.Quadrant())
		})
	}
}

func TestPriorityScoreDefaultsMissingToMidpoint(t *testing.T) {
	assert.Equal(t, 6, Task{}.PriorityScore())
	assert.Equal(t, 8, Task{Relevance: 5}.PriorityScore())
	assert.Equal(t, 10, Task{Relevance: 5, Urgency: 5}.PriorityScore())
	assert.Equal(t, 2, Task{Relevance: 1, Urgency: 1}.PriorityScore())
}
