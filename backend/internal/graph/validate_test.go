package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"p1", true},
		{"task-1a2b3c4d", true},
		{"node_ÅÄÖ", true},
		{"", false},
		{"has space", false},
		{"a})-[r]-(b", false},
		{"semi;colon", false},
		{strings.Repeat("x", MaxIDLength), true},
		{strings.Repeat("x", MaxIDLength+1), false},
	}

	for _, tt := range tests {
		err := ValidateID(tt.id)
		if tt.valid {
			assert.NoError(t, err, tt.id)
			continue
		}
		var invalid ErrInvalidNodeID
		assert.ErrorAs(t, err, &invalid, tt.id)
	}
}

func TestValidateNode(t *testing.T) {
	assert.NoError(t, ValidateNode(Node{ID: "a", Type: NodeTypeAction}))
	assert.Error(t, ValidateNode(Node{ID: "a", Type: "team"}))
	assert.Error(t, ValidateNode(Node{ID: "a b", Type: NodeTypeAction}))
}
