package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSection(t *testing.T) {
	content := `-- +migrate Up
CREATE TABLE a (id INT);
CREATE TABLE b (id INT);

-- +migrate Down
DROP TABLE b;
DROP TABLE a;
`

	up := section(content, "Up")
	assert.Contains(t, up, "CREATE TABLE a")
	assert.Contains(t, up, "CREATE TABLE b")
	assert.NotContains(t, up, "DROP TABLE")

	down := section(content, "Down")
	assert.Contains(t, down, "DROP TABLE a")
	assert.NotContains(t, down, "CREATE TABLE")
}

func TestSection_MissingMarker(t *testing.T) {
	assert.Empty(t, section("CREATE TABLE a (id INT);", "Up"))
}
