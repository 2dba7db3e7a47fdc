package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Andrei15193/CodeMap-sub002/internal/index"
)

func TestIdentifierArg(t *testing.T) {
	id := "M:Acme.Widget.DoWork(System.Int32,System.String)"
	assert.Equal(t, id, identifierArg(id))
	assert.Equal(t, id, identifierArg(index.URI(id)))
	assert.Equal(t, "T:Acme.Box`1", identifierArg("codemap://T:Acme.Box%601"))
}
