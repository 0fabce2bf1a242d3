package cardano

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"wallet-service/internal/domain"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type fakeProvider struct {
	utxos     []domain.UTXO
	balance   int64
	slot      uint64
	calls     int
	submitted [][]byte
}

func (f *fakeProvider) UTXOs(ctx context.Context, address string) ([]domain.UTXO, error) {
	f.calls++
	return f.utxos, nil
}

func (f *fakeProvider) Balance(ctx context.Context, address string) (int64, error) {
	f.calls++
	return f.balance, nil
}

func (f *fakeProvider) ProtocolParams(ctx context.Context) (*FeeParams, error) {
	f.calls++
	return DefaultFeeParams(), nil
}

func (f *fakeProvider) LatestSlot(ctx context.Context) (uint64, error) {
	f.calls++
	return f.slot, nil
}

func (f *fakeProvider) Submit(ctx context.Context, signedTx []byte) (string, error) {
	f.calls++
	f.submitted = append(f.submitted, signedTx)
	return "cardanotx1", nil
}

func testChain(provider Provider) *Chain {
	return &Chain{provider: provider, network: "testnet", logger: zap.NewNop()}
}

func TestFeeParamsLinear(t *testing.T) {
	params := DefaultFeeParams()
	assert.Equal(t, int64(44*200+155381), params.Estimate(200))
	assert.Equal(t, int64(155381), params.Estimate(0))
}

func TestDeriveWalletDeterministic(t *testing.T) {
	c := testChain(nil)

	a, err := c.DeriveWallet(testMnemonic, domain.DerivePath{})
	require.NoError(t, err)
	b, err := c.DeriveWallet(testMnemonic, domain.DerivePath{})
	require.NoError(t, err)

	assert.Equal(t, a.Address, b.Address)
	assert.Equal(t, a.StakeAddress, b.StakeAddress)
	assert.True(t, strings.HasPrefix(a.Address, "addr_test1"), "got %s", a.Address)
	assert.True(t, strings.HasPrefix(a.StakeAddress, "stake_test1"), "got %s", a.StakeAddress)

	// Another index is a fresh payment address under the same staking
	// identity.
	other, err := c.DeriveWallet(testMnemonic, domain.DerivePath{Index: 1})
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, other.Address)
	assert.Equal(t, a.StakeAddress, other.StakeAddress)

	// Another account changes the staking identity too.
	acct, err := c.DeriveWallet(testMnemonic, domain.DerivePath{Account: 1})
	require.NoError(t, err)
	assert.NotEqual(t, a.StakeAddress, acct.StakeAddress)
}

func TestDeriveWalletRejectsBadMnemonic(t *testing.T) {
	c := testChain(nil)

	_, err := c.DeriveWallet("this is no mnemonic", domain.DerivePath{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidMnemonic)
}

func TestImportGetsEnterpriseAddress(t *testing.T) {
	c := testChain(nil)

	derived, err := c.DeriveWallet(testMnemonic, domain.DerivePath{})
	require.NoError(t, err)

	imported, err := c.ImportWallet(derived.PrivateKey)
	require.NoError(t, err)

	// Same payment credential, but without the stake part the address is
	// the shorter enterprise form.
	assert.NotEqual(t, derived.Address, imported.Address)
	assert.Empty(t, imported.StakeAddress)
	assert.Equal(t, derived.PublicKey, imported.PublicKey)
	assert.NoError(t, c.ValidateAddress(imported.Address))
}

func TestValidateAddressRejectsOtherNetwork(t *testing.T) {
	testnet := testChain(nil)
	mainnet := &Chain{network: "mainnet", logger: zap.NewNop()}

	w, err := testnet.DeriveWallet(testMnemonic, domain.DerivePath{})
	require.NoError(t, err)

	assert.NoError(t, testnet.ValidateAddress(w.Address))
	err = mainnet.ValidateAddress(w.Address)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestSendSignerMismatchBeforeAnyProviderCall(t *testing.T) {
	provider := &fakeProvider{}
	c := testChain(provider)

	w, err := c.DeriveWallet(testMnemonic, domain.DerivePath{})
	require.NoError(t, err)
	other, err := c.DeriveWallet(testMnemonic, domain.DerivePath{Index: 2})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), &domain.SendRequest{
		From:       other.Address,
		To:         w.Address,
		Amount:     big.NewInt(2_000_000),
		PrivateKey: w.PrivateKey,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSignerMismatch)
	assert.Zero(t, provider.calls, "signer mismatch must abort before provider calls")
}

func TestSendRejectsSubMinimumAmount(t *testing.T) {
	c := testChain(&fakeProvider{})

	w, err := c.DeriveWallet(testMnemonic, domain.DerivePath{})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), &domain.SendRequest{
		From:       w.Address,
		To:         w.Address,
		Amount:     big.NewInt(999_999),
		PrivateKey: w.PrivateKey,
	})

	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestSendRejectsAmountBeyondInt64(t *testing.T) {
	provider := &fakeProvider{
		utxos: []domain.UTXO{{TxID: strings.Repeat("ab", 32), Vout: 0, Value: 5_000_000}},
	}
	c := testChain(provider)

	w, err := c.DeriveWallet(testMnemonic, domain.DerivePath{})
	require.NoError(t, err)
	dest, err := c.DeriveWallet(testMnemonic, domain.DerivePath{Index: 1})
	require.NoError(t, err)

	// 2^64 + 2_000_000: the low 64 bits alone look like an affordable payment.
	amount := new(big.Int).Lsh(big.NewInt(1), 64)
	amount.Add(amount, big.NewInt(2_000_000))

	_, err = c.Send(context.Background(), &domain.SendRequest{
		From:       w.Address,
		To:         dest.Address,
		Amount:     amount,
		PrivateKey: w.PrivateKey,
	})

	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Empty(t, provider.submitted, "truncated amount must never reach broadcast")
}

func TestSendInsufficientFunds(t *testing.T) {
	provider := &fakeProvider{
		utxos: []domain.UTXO{{TxID: strings.Repeat("ab", 32), Vout: 0, Value: 500_000}},
	}
	c := testChain(provider)

	w, err := c.DeriveWallet(testMnemonic, domain.DerivePath{})
	require.NoError(t, err)
	dest, err := c.DeriveWallet(testMnemonic, domain.DerivePath{Index: 1})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), &domain.SendRequest{
		From:       w.Address,
		To:         dest.Address,
		Amount:     big.NewInt(2_000_000),
		PrivateKey: w.PrivateKey,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Empty(t, provider.submitted)
}

func TestSendBuildsChangeOutput(t *testing.T) {
	provider := &fakeProvider{
		utxos: []domain.UTXO{{TxID: strings.Repeat("ab", 32), Vout: 0, Value: 5_000_000}},
		slot:  1000,
	}
	c := testChain(provider)

	w, err := c.DeriveWallet(testMnemonic, domain.DerivePath{})
	require.NoError(t, err)
	dest, err := c.DeriveWallet(testMnemonic, domain.DerivePath{Index: 1})
	require.NoError(t, err)

	res, err := c.Send(context.Background(), &domain.SendRequest{
		From:       w.Address,
		To:         dest.Address,
		Amount:     big.NewInt(2_000_000),
		PrivateKey: w.PrivateKey,
	})
	require.NoError(t, err)
	assert.Equal(t, "cardanotx1", res.TxID)
	assert.Equal(t, int64(2_000_000), res.Amount.Int64())
	assert.GreaterOrEqual(t, res.Fee.Int64(), DefaultFeeParams().Fixed)

	require.Len(t, provider.submitted, 1)
	var tx signedTx
	require.NoError(t, cbor.Unmarshal(provider.submitted[0], &tx))

	require.Len(t, tx.Body.Outputs, 2)
	fromBytes, err := c.decodeOwnAddress(w.Address)
	require.NoError(t, err)
	assert.Equal(t, fromBytes, tx.Body.Outputs[1].Address)

	// Inputs, payment, change and fee balance exactly.
	assert.Equal(t, uint64(5_000_000),
		tx.Body.Outputs[0].Amount+tx.Body.Outputs[1].Amount+tx.Body.Fee)
	assert.Equal(t, uint64(1000+ttlWindowSlots), tx.Body.TTL)
	assert.True(t, tx.IsValid)
	require.Len(t, tx.Witnesses.VKeys, 1)
}

func TestSendMaxSweepsEverything(t *testing.T) {
	provider := &fakeProvider{
		utxos: []domain.UTXO{
			{TxID: strings.Repeat("ab", 32), Vout: 0, Value: 3_000_000},
			{TxID: strings.Repeat("cd", 32), Vout: 1, Value: 4_000_000},
		},
	}
	c := testChain(provider)

	w, err := c.DeriveWallet(testMnemonic, domain.DerivePath{})
	require.NoError(t, err)
	dest, err := c.DeriveWallet(testMnemonic, domain.DerivePath{Index: 1})
	require.NoError(t, err)

	res, err := c.Send(context.Background(), &domain.SendRequest{
		From:       w.Address,
		To:         dest.Address,
		SendMax:    true,
		PrivateKey: w.PrivateKey,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7_000_000), res.Amount.Int64()+res.Fee.Int64())

	require.Len(t, provider.submitted, 1)
	var tx signedTx
	require.NoError(t, cbor.Unmarshal(provider.submitted[0], &tx))
	assert.Len(t, tx.Body.Outputs, 1)
	assert.Len(t, tx.Body.Inputs, 2)
}

func TestSendFoldsDustChangeIntoFee(t *testing.T) {
	// One input whose residual after payment and fee is positive but below
	// the output minimum: it must vanish into the fee, not become an output.
	provider := &fakeProvider{
		utxos: []domain.UTXO{{TxID: strings.Repeat("ab", 32), Vout: 0, Value: 2_700_000}},
	}
	c := testChain(provider)

	w, err := c.DeriveWallet(testMnemonic, domain.DerivePath{})
	require.NoError(t, err)
	dest, err := c.DeriveWallet(testMnemonic, domain.DerivePath{Index: 1})
	require.NoError(t, err)

	res, err := c.Send(context.Background(), &domain.SendRequest{
		From:       w.Address,
		To:         dest.Address,
		Amount:     big.NewInt(2_000_000),
		PrivateKey: w.PrivateKey,
	})
	require.NoError(t, err)

	var tx signedTx
	require.Len(t, provider.submitted, 1)
	require.NoError(t, cbor.Unmarshal(provider.submitted[0], &tx))
	assert.Len(t, tx.Body.Outputs, 1)
	assert.Equal(t, int64(700_000), res.Fee.Int64())
}

func TestGetBalance(t *testing.T) {
	c := testChain(&fakeProvider{balance: 3_500_000})

	w, err := c.DeriveWallet(testMnemonic, domain.DerivePath{})
	require.NoError(t, err)

	bal, err := c.GetBalance(context.Background(), w.Address)
	require.NoError(t, err)
	assert.Equal(t, int64(3_500_000), bal.Amount.Int64())
	assert.Equal(t, "3.5", bal.Decimal.String())
}
