package evm

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"crypto-settlement-gateway/internal/core/ports"
	"crypto-settlement-gateway/pkg/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usdtContract = "0xdAC17F958D2ee523a2206206994597C13D831ec7"

type fakeBackend struct {
	blockNumber        func(ctx context.Context) (uint64, error)
	headerByNumber     func(ctx context.Context, number *big.Int) (*types.Header, error)
	filterLogs         func(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	callContract       func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	balanceAt          func(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	pendingNonceAt     func(ctx context.Context, account common.Address) (uint64, error)
	suggestGasTipCap   func(ctx context.Context) (*big.Int, error)
	suggestGasPrice    func(ctx context.Context) (*big.Int, error)
	sendTransaction    func(ctx context.Context, tx *types.Transaction) error
	transactionReceipt func(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

func (f *fakeBackend) BlockNumber(ctx context.Context) (uint64, error) {
	return f.blockNumber(ctx)
}
func (f *fakeBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return f.headerByNumber(ctx, number)
}
func (f *fakeBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return f.filterLogs(ctx, q)
}
func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return f.callContract(ctx, msg, blockNumber)
}
func (f *fakeBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return f.balanceAt(ctx, account, blockNumber)
}
func (f *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return f.pendingNonceAt(ctx, account)
}
func (f *fakeBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return f.suggestGasTipCap(ctx)
}
func (f *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return f.suggestGasPrice(ctx)
}
func (f *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return f.sendTransaction(ctx, tx)
}
func (f *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return f.transactionReceipt(ctx, txHash)
}

func newTestAdapter(t *testing.T, backend *fakeBackend) *Adapter {
	t.Helper()
	log := logger.New("error", false)
	a, err := New("ethereum", backend, big.NewInt(1), map[string]string{"usdt": usdtContract}, 12, log)
	require.NoError(t, err)
	return a
}

func transferLog(from, to common.Address, amount *big.Int, block uint64, index uint) types.Log {
	return types.Log{
		Address:     common.HexToAddress(usdtContract),
		Topics:      []common.Hash{transferTopic, common.BytesToHash(from.Bytes()), common.BytesToHash(to.Bytes())},
		Data:        common.LeftPadBytes(amount.Bytes(), 32),
		BlockNumber: block,
		Index:       index,
		TxHash:      crypto.Keccak256Hash(amount.Bytes(), []byte{byte(index)}),
	}
}

func TestAdapter_ScanAddress_OrdersByHeightThenIndex(t *testing.T) {
	recipient := common.HexToAddress("0x52908400098527886E0F7030069857D2E4169EE7")
	sender := common.HexToAddress("0x8617E340B3D01FA5F11F306F4090FD50E238070D")

	backend := &fakeBackend{
		filterLogs: func(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
			assert.Equal(t, int64(100), q.FromBlock.Int64())
			assert.Equal(t, int64(110), q.ToBlock.Int64())
			// Out of order on purpose.
			return []types.Log{
				transferLog(sender, recipient, big.NewInt(300), 105, 7),
				transferLog(sender, recipient, big.NewInt(100), 102, 3),
				transferLog(sender, recipient, big.NewInt(200), 105, 1),
			}, nil
		},
	}
	a := newTestAdapter(t, backend)

	transfers, err := a.ScanAddress(context.Background(), recipient.Hex(), "usdt", 100, 110)
	require.NoError(t, err)
	require.Len(t, transfers, 3)
	assert.Equal(t, int64(102), transfers[0].BlockHeight)
	assert.Equal(t, uint(1), transfers[1].LogIndex)
	assert.Equal(t, uint(7), transfers[2].LogIndex)
	assert.Equal(t, 0, transfers[0].Amount.Cmp(big.NewInt(100)))
}

func TestAdapter_ScanAddress_SkipsRemovedLogs(t *testing.T) {
	recipient := common.HexToAddress("0x52908400098527886E0F7030069857D2E4169EE7")
	sender := common.HexToAddress("0x8617E340B3D01FA5F11F306F4090FD50E238070D")

	removed := transferLog(sender, recipient, big.NewInt(999), 103, 0)
	removed.Removed = true

	backend := &fakeBackend{
		filterLogs: func(_ context.Context, _ ethereum.FilterQuery) ([]types.Log, error) {
			return []types.Log{removed, transferLog(sender, recipient, big.NewInt(50), 104, 0)}, nil
		},
	}
	a := newTestAdapter(t, backend)

	transfers, err := a.ScanAddress(context.Background(), recipient.Hex(), "usdt", 100, 110)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, 0, transfers[0].Amount.Cmp(big.NewInt(50)))
}

func TestAdapter_ScanAddress_UnknownToken(t *testing.T) {
	a := newTestAdapter(t, &fakeBackend{})

	_, err := a.ScanAddress(context.Background(), "0x52908400098527886E0F7030069857D2E4169EE7", "doge", 1, 2)
	assert.Error(t, err)
}

func TestAdapter_Balance_EncodesBalanceOfCall(t *testing.T) {
	holder := common.HexToAddress("0x52908400098527886E0F7030069857D2E4169EE7")

	backend := &fakeBackend{
		callContract: func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
			assert.Equal(t, common.HexToAddress(usdtContract), *msg.To)
			assert.Equal(t, balanceOfSelector, msg.Data[:4])
			assert.Equal(t, common.LeftPadBytes(holder.Bytes(), 32), msg.Data[4:])
			return common.LeftPadBytes(big.NewInt(123_456).Bytes(), 32), nil
		},
	}
	a := newTestAdapter(t, backend)

	balance, err := a.Balance(context.Background(), holder.Hex(), "usdt")
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(big.NewInt(123_456)))
}

func TestAdapter_CurrentHeight_RPCUnavailable(t *testing.T) {
	backend := &fakeBackend{
		blockNumber: func(_ context.Context) (uint64, error) {
			return 0, errors.New("connection refused")
		},
	}
	a := newTestAdapter(t, backend)

	_, err := a.CurrentHeight(context.Background())
	assert.ErrorIs(t, err, ports.ErrRPCUnavailable)
}

func TestAdapter_TransactionConfirmations(t *testing.T) {
	backend := &fakeBackend{
		transactionReceipt: func(_ context.Context, _ common.Hash) (*types.Receipt, error) {
			return &types.Receipt{BlockNumber: big.NewInt(100)}, nil
		},
		blockNumber: func(_ context.Context) (uint64, error) { return 111, nil },
	}
	a := newTestAdapter(t, backend)

	confs, err := a.TransactionConfirmations(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, int64(12), confs)
}

func TestAdapter_TransactionConfirmations_NotFound(t *testing.T) {
	backend := &fakeBackend{
		transactionReceipt: func(_ context.Context, _ common.Hash) (*types.Receipt, error) {
			return nil, ethereum.NotFound
		},
	}
	a := newTestAdapter(t, backend)

	_, err := a.TransactionConfirmations(context.Background(), "0xabc")
	assert.ErrorIs(t, err, ports.ErrTxNotFound)
}

func TestAdapter_SignAndBroadcast_TokenTransfer(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	var sent *types.Transaction
	backend := &fakeBackend{
		pendingNonceAt:   func(_ context.Context, _ common.Address) (uint64, error) { return 7, nil },
		suggestGasTipCap: func(_ context.Context) (*big.Int, error) { return big.NewInt(2_000_000_000), nil },
		headerByNumber: func(_ context.Context, _ *big.Int) (*types.Header, error) {
			return &types.Header{BaseFee: big.NewInt(30_000_000_000)}, nil
		},
		sendTransaction: func(_ context.Context, tx *types.Transaction) error {
			sent = tx
			return nil
		},
	}
	a := newTestAdapter(t, backend)

	req := ports.TransferRequest{
		Token:  "usdt",
		From:   from.Hex(),
		To:     "0x8617E340B3D01FA5F11F306F4090FD50E238070D",
		Amount: big.NewInt(1_000_000),
	}
	raw, signedHash, err := a.SignTransfer(context.Background(), req, crypto.FromECDSA(key))
	require.NoError(t, err)

	hash, err := a.Broadcast(context.Background(), raw)
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, sent.Hash().Hex(), hash)
	assert.Equal(t, sent.Hash().Hex(), signedHash, "signing reports the hash broadcast will produce")
	assert.Equal(t, uint64(7), sent.Nonce())
	assert.Equal(t, common.HexToAddress(usdtContract), *sent.To())
	assert.Equal(t, transferSelector, sent.Data()[:4])
	assert.Equal(t, uint8(types.DynamicFeeTxType), sent.Type())
}

func TestAdapter_SignTransfer_LegacyChainWithoutBaseFee(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	var sent *types.Transaction
	backend := &fakeBackend{
		pendingNonceAt: func(_ context.Context, _ common.Address) (uint64, error) { return 3, nil },
		headerByNumber: func(_ context.Context, _ *big.Int) (*types.Header, error) {
			// Pre-London chains report no base fee.
			return &types.Header{}, nil
		},
		suggestGasPrice: func(_ context.Context) (*big.Int, error) { return big.NewInt(5_000_000_000), nil },
		sendTransaction: func(_ context.Context, tx *types.Transaction) error {
			sent = tx
			return nil
		},
	}
	a := newTestAdapter(t, backend)

	req := ports.TransferRequest{
		From:   from.Hex(),
		To:     "0x8617E340B3D01FA5F11F306F4090FD50E238070D",
		Amount: big.NewInt(1_000),
	}
	raw, signedHash, err := a.SignTransfer(context.Background(), req, crypto.FromECDSA(key))
	require.NoError(t, err)

	hash, err := a.Broadcast(context.Background(), raw)
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, signedHash, hash)
	assert.Equal(t, uint8(types.LegacyTxType), sent.Type())
	assert.Equal(t, 0, sent.GasPrice().Cmp(big.NewInt(5_000_000_000)))
}

func TestAdapter_Broadcast_Rejected(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	backend := &fakeBackend{
		pendingNonceAt:   func(_ context.Context, _ common.Address) (uint64, error) { return 0, nil },
		suggestGasTipCap: func(_ context.Context) (*big.Int, error) { return big.NewInt(1), nil },
		headerByNumber: func(_ context.Context, _ *big.Int) (*types.Header, error) {
			return &types.Header{BaseFee: big.NewInt(1)}, nil
		},
		sendTransaction: func(_ context.Context, _ *types.Transaction) error {
			return errors.New("insufficient funds for gas * price + value")
		},
	}
	a := newTestAdapter(t, backend)

	req := ports.TransferRequest{
		From:   crypto.PubkeyToAddress(key.PublicKey).Hex(),
		To:     "0x8617E340B3D01FA5F11F306F4090FD50E238070D",
		Amount: big.NewInt(1),
	}
	raw, _, err := a.SignTransfer(context.Background(), req, crypto.FromECDSA(key))
	require.NoError(t, err)

	_, err = a.Broadcast(context.Background(), raw)
	var rejected *ports.BroadcastRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "ethereum", rejected.Chain)
}

func TestAdapter_ValidateAddress(t *testing.T) {
	a := newTestAdapter(t, &fakeBackend{})

	assert.True(t, a.ValidateAddress("0x52908400098527886E0F7030069857D2E4169EE7"))
	assert.False(t, a.ValidateAddress("TXYZa1b2"))
	assert.False(t, a.ValidateAddress(""))
}

func TestAdapter_GenerateDepositKey(t *testing.T) {
	a := newTestAdapter(t, &fakeBackend{})

	address, privateKey, err := a.GenerateDepositKey()
	require.NoError(t, err)
	assert.True(t, a.ValidateAddress(address))

	key, err := crypto.ToECDSA(privateKey)
	require.NoError(t, err)
	assert.Equal(t, address, crypto.PubkeyToAddress(key.PublicKey).Hex())
}
