package gstorage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	assert.Equal(t, "backups/connective.db", ObjectName("backups", "/home/olena/.connective/connective.db"))
	assert.Equal(t, "connective.db", ObjectName("", "connective.db"))
	assert.Equal(t, "a/b/connective.db", ObjectName("a/b/", "data/connective.db"))
}
