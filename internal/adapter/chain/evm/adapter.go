package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
)

// Gas limits for the two transfer shapes the gateway emits.
const (
	nativeTransferGas = 21000
	tokenTransferGas  = 65000
)

// transferTopic is keccak256("Transfer(address,address,uint256)").
var transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// balanceOfSelector is the first four bytes of keccak256("balanceOf(address)").
var balanceOfSelector = crypto.Keccak256([]byte("balanceOf(address)"))[:4]

// transferSelector is the first four bytes of keccak256("transfer(address,uint256)").
var transferSelector = crypto.Keccak256([]byte("transfer(address,uint256)"))[:4]

// Backend is the slice of the Ethereum RPC surface the adapter uses.
// *ethclient.Client satisfies it.
type Backend interface {
	BlockNumber(ctx context.Context) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Adapter implements ports.ChainAdapter for EVM chains over a JSON-RPC
// backend.
type Adapter struct {
	chain         string
	backend       Backend
	chainID       *big.Int
	tokens        map[string]common.Address
	requiredConfs int64
	log           zerolog.Logger
}

// New creates an EVM chain adapter. tokens maps token codes to their ERC-20
// contract addresses.
func New(chain string, backend Backend, chainID *big.Int, tokens map[string]string, requiredConfs int64, log zerolog.Logger) (*Adapter, error) {
	contracts := make(map[string]common.Address, len(tokens))
	for code, addr := range tokens {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid contract address for token %s: %s", code, addr)
		}
		contracts[code] = common.HexToAddress(addr)
	}
	return &Adapter{
		chain:         chain,
		backend:       backend,
		chainID:       chainID,
		tokens:        contracts,
		requiredConfs: requiredConfs,
		log:           log.With().Str("component", "evm_adapter").Str("chain", chain).Logger(),
	}, nil
}

// Chain returns the chain code this adapter serves.
func (a *Adapter) Chain() string {
	return a.chain
}

// CurrentHeight returns the chain tip height.
func (a *Adapter) CurrentHeight(ctx context.Context) (int64, error) {
	height, err := a.backend.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ports.ErrRPCUnavailable, err)
	}
	return int64(height), nil
}

// ScanAddress lists ERC-20 transfers into address between fromHeight and
// toHeight inclusive, ascending by block height then log index.
func (a *Adapter) ScanAddress(ctx context.Context, address, token string, fromHeight, toHeight int64) ([]domain.IncomingTransfer, error) {
	contract, ok := a.tokens[token]
	if !ok {
		return nil, fmt.Errorf("unknown token %s on %s", token, a.chain)
	}
	recipient := common.HexToAddress(address)

	q := ethereum.FilterQuery{
		FromBlock: big.NewInt(fromHeight),
		ToBlock:   big.NewInt(toHeight),
		Addresses: []common.Address{contract},
		Topics: [][]common.Hash{
			{transferTopic},
			nil,
			{common.BytesToHash(recipient.Bytes())},
		},
	}

	logs, err := a.backend.FilterLogs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: filter logs: %v", ports.ErrRPCUnavailable, err)
	}

	transfers := make([]domain.IncomingTransfer, 0, len(logs))
	for _, lg := range logs {
		if lg.Removed || len(lg.Topics) < 3 {
			continue
		}
		transfers = append(transfers, domain.IncomingTransfer{
			Chain:       a.chain,
			TxHash:      lg.TxHash.Hex(),
			From:        common.BytesToAddress(lg.Topics[1].Bytes()).Hex(),
			To:          recipient.Hex(),
			Token:       token,
			Amount:      new(big.Int).SetBytes(lg.Data),
			BlockHeight: int64(lg.BlockNumber),
			LogIndex:    lg.Index,
		})
	}

	sort.Slice(transfers, func(i, j int) bool {
		if transfers[i].BlockHeight != transfers[j].BlockHeight {
			return transfers[i].BlockHeight < transfers[j].BlockHeight
		}
		return transfers[i].LogIndex < transfers[j].LogIndex
	})
	return transfers, nil
}

// Balance returns the ERC-20 balance of address in base units.
func (a *Adapter) Balance(ctx context.Context, address, token string) (*big.Int, error) {
	contract, ok := a.tokens[token]
	if !ok {
		return nil, fmt.Errorf("unknown token %s on %s", token, a.chain)
	}

	data := make([]byte, 0, 36)
	data = append(data, balanceOfSelector...)
	data = append(data, common.LeftPadBytes(common.HexToAddress(address).Bytes(), 32)...)

	out, err := a.backend.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: balanceOf call: %v", ports.ErrRPCUnavailable, err)
	}
	return new(big.Int).SetBytes(out), nil
}

// NativeBalance returns the ETH balance of address in wei.
func (a *Adapter) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	balance, err := a.backend.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: balance at: %v", ports.ErrRPCUnavailable, err)
	}
	return balance, nil
}

// SignTransfer builds and signs a transfer with the given raw private key,
// returning the signed bytes and the transaction hash. Chains with EIP-1559
// headers get a dynamic-fee transaction; a nil base fee means a pre-London
// or non-1559 chain and falls back to a legacy gas-price transaction.
func (a *Adapter) SignTransfer(ctx context.Context, req ports.TransferRequest, privateKey []byte) ([]byte, string, error) {
	key, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, "", fmt.Errorf("parse private key: %w", err)
	}

	from := common.HexToAddress(req.From)
	nonce, err := a.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, "", fmt.Errorf("%w: pending nonce: %v", ports.ErrRPCUnavailable, err)
	}

	var (
		to    common.Address
		value *big.Int
		data  []byte
		gas   uint64
	)
	if req.Token == "" {
		to = common.HexToAddress(req.To)
		value = req.Amount
		gas = nativeTransferGas
	} else {
		contract, ok := a.tokens[req.Token]
		if !ok {
			return nil, "", fmt.Errorf("unknown token %s on %s", req.Token, a.chain)
		}
		to = contract
		data = make([]byte, 0, 68)
		data = append(data, transferSelector...)
		data = append(data, common.LeftPadBytes(common.HexToAddress(req.To).Bytes(), 32)...)
		data = append(data, common.LeftPadBytes(req.Amount.Bytes(), 32)...)
		gas = tokenTransferGas
	}

	head, err := a.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: head header: %v", ports.ErrRPCUnavailable, err)
	}

	var tx *types.Transaction
	if head.BaseFee != nil {
		tip, err := a.backend.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("%w: gas tip: %v", ports.ErrRPCUnavailable, err)
		}
		feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   a.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gas,
			To:        &to,
			Value:     value,
			Data:      data,
		})
	} else {
		price, err := a.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("%w: gas price: %v", ports.ErrRPCUnavailable, err)
		}
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: price,
			Gas:      gas,
			To:       &to,
			Value:    value,
			Data:     data,
		})
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(a.chainID), key)
	if err != nil {
		return nil, "", fmt.Errorf("sign transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, "", fmt.Errorf("encode transaction: %w", err)
	}
	return raw, signed.Hash().Hex(), nil
}

// Broadcast submits a signed transaction and returns its hash.
func (a *Adapter) Broadcast(ctx context.Context, signedTx []byte) (string, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(signedTx); err != nil {
		return "", fmt.Errorf("decode signed transaction: %w", err)
	}

	if err := a.backend.SendTransaction(ctx, tx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: %v", ports.ErrRPCUnavailable, err)
		}
		if strings.Contains(err.Error(), "already known") {
			// Re-broadcast of a transaction the mempool already holds.
			return tx.Hash().Hex(), nil
		}
		return "", &ports.BroadcastRejectedError{Chain: a.chain, Detail: err.Error()}
	}
	a.log.Info().Str("tx_hash", tx.Hash().Hex()).Msg("transaction broadcast")
	return tx.Hash().Hex(), nil
}

// EstimateFee estimates the native cost of one transfer of token.
func (a *Adapter) EstimateFee(ctx context.Context, token string) (*big.Int, error) {
	price, err := a.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: gas price: %v", ports.ErrRPCUnavailable, err)
	}
	gas := int64(nativeTransferGas)
	if token != "" {
		gas = tokenTransferGas
	}
	return new(big.Int).Mul(price, big.NewInt(gas)), nil
}

// TransactionConfirmations returns the confirmation depth of txHash.
func (a *Adapter) TransactionConfirmations(ctx context.Context, txHash string) (int64, error) {
	receipt, err := a.backend.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return 0, ports.ErrTxNotFound
		}
		return 0, fmt.Errorf("%w: receipt: %v", ports.ErrRPCUnavailable, err)
	}
	height, err := a.backend.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: block number: %v", ports.ErrRPCUnavailable, err)
	}
	confs := int64(height) - receipt.BlockNumber.Int64() + 1
	if confs < 0 {
		confs = 0
	}
	return confs, nil
}

// RequiredConfirmations is the configured finality threshold.
func (a *Adapter) RequiredConfirmations() int64 {
	return a.requiredConfs
}

// ValidateAddress reports whether address is a well formed hex address.
func (a *Adapter) ValidateAddress(address string) bool {
	return common.IsHexAddress(address)
}

// GenerateDepositKey creates a fresh secp256k1 keypair.
func (a *Adapter) GenerateDepositKey() (string, []byte, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return "", nil, fmt.Errorf("generate key: %w", err)
	}
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	return address, crypto.FromECDSA(key), nil
}
