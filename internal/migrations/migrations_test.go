package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPending_SkipsAppliedAndSorts(t *testing.T) {
	all := []Migration{{ID: "3_c"}, {ID: "1_a"}, {ID: "2_b"}}

	got := pending(all, map[string]bool{"2_b": true})

	assert.Equal(t, []Migration{{ID: "1_a"}, {ID: "3_c"}}, got)
	assert.Equal(t, "3_c", all[0].ID)
}

func TestPending_AllApplied(t *testing.T) {
	got := pending(allMigrations, map[string]bool{allMigrations[0].ID: true})

	assert.Empty(t, got)
}
