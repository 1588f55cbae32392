package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter struct{ name string }

func TestContainer_FactoryRunsOnce(t *testing.T) {
	c := NewContainer()
	calls := 0
	tok := NewToken[*greeter]("test.greeter")

	RegisterToken(c, tok, func(ServiceRegistry) *greeter {
		calls++
		return &greeter{name: "bnb"}
	})

	first := GetToken(c, tok)
	second := GetToken(c, tok)

	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestContainer_ResolvesDependencies(t *testing.T) {
	c := NewContainer()
	c.Register("config", "chain=bnb")

	tok := NewToken[string]("derived")
	RegisterToken(c, tok, func(sr ServiceRegistry) string {
		return sr.Get("config").(string) + "!"
	})

	assert.Equal(t, "chain=bnb!", GetToken(c, tok))
}

func TestContainer_UnknownPanics(t *testing.T) {
	c := NewContainer()
	assert.Panics(t, func() { c.Get("missing") })
}
