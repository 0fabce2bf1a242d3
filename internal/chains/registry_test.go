package chains

import (
	"testing"

	"wallet-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedChain struct {
	domain.Chain
	name string
}

func (n *namedChain) Name() string { return n.name }

func TestRegistryGetUnknownIsValidation(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("RIPPLE")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&namedChain{name: "BITCOIN"})
	r.Register(&namedChain{name: "ETHEREUM"})

	chain, err := r.Get("BITCOIN")
	require.NoError(t, err)
	assert.Equal(t, "BITCOIN", chain.Name())

	assert.Equal(t, []string{"BITCOIN", "ETHEREUM"}, r.List())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	r.Register(&namedChain{name: "SOLANA"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			r.Register(&namedChain{name: "CARDANO"})
		}
	}()
	for i := 0; i < 100; i++ {
		_, _ = r.Get("SOLANA")
		_ = r.List()
	}
	<-done

	_, err := r.Get("CARDANO")
	assert.NoError(t, err)
}
