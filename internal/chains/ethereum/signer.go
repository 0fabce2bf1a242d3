// internal/chains/ethereum/signer.go
package ethereum

import (
	"crypto/ecdsa"
	"math/big"

	"wallet-service/internal/domain"

	"github.com/ethereum/go-ethereum/core/types"
)

// signTransaction signs tx for chainID with the latest signer the chain
// supports, covering both dynamic-fee and legacy payloads.
func signTransaction(tx *types.Transaction, priv *ecdsa.PrivateKey, chainID *big.Int) (*types.Transaction, error) {
	signer := types.LatestSignerForChainID(chainID)
	signedTx, err := types.SignTx(tx, signer, priv)
	if err != nil {
		return nil, domain.Cryptof("sign transaction: %v", err)
	}
	return signedTx, nil
}
