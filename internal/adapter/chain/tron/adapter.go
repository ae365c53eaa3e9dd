package tron

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"

	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
)

// addressPrefix is the TRON mainnet address version byte.
const addressPrefix = 0x41

// apiKeyHeader carries the TronGrid API key.
const apiKeyHeader = "TRON-PRO-API-KEY"

// transferSelector is the TRC-20 transfer(address,uint256) method id.
const transferSelector = "a9059cbb"

// HTTPClient is the transport the adapter posts through. *http.Client
// satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Adapter implements ports.ChainAdapter over the TRON full-node HTTP API.
type Adapter struct {
	chain         string
	baseURL       string
	apiKey        string
	client        HTTPClient
	tokens        map[string]string // token code -> TRC-20 contract, base58
	feeLimit      int64
	requiredConfs int64
	log           zerolog.Logger
}

// New creates a TRON chain adapter.
func New(chain, baseURL, apiKey string, client HTTPClient, tokens map[string]string, feeLimit, requiredConfs int64, log zerolog.Logger) (*Adapter, error) {
	for code, addr := range tokens {
		if _, err := addressToHex(addr); err != nil {
			return nil, fmt.Errorf("invalid contract address for token %s: %w", code, err)
		}
	}
	return &Adapter{
		chain:         chain,
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		client:        client,
		tokens:        tokens,
		feeLimit:      feeLimit,
		requiredConfs: requiredConfs,
		log:           log.With().Str("component", "tron_adapter").Str("chain", chain).Logger(),
	}, nil
}

func (a *Adapter) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set(apiKeyHeader, a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrRPCUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ports.ErrRPCUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ports.ErrRPCUnavailable, path, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Chain returns the chain code this adapter serves.
func (a *Adapter) Chain() string {
	return a.chain
}

type blockHeader struct {
	RawData struct {
		Number int64 `json:"number"`
	} `json:"raw_data"`
}

type block struct {
	BlockHeader  blockHeader `json:"block_header"`
	Transactions []blockTx   `json:"transactions"`
}

type blockTx struct {
	TxID string `json:"txID"`
	Ret  []struct {
		ContractRet string `json:"contractRet"`
	} `json:"ret"`
	RawData struct {
		Contract []struct {
			Type      string `json:"type"`
			Parameter struct {
				Value struct {
					OwnerAddress    string `json:"owner_address"`
					ToAddress       string `json:"to_address"`
					ContractAddress string `json:"contract_address"`
					Amount          int64  `json:"amount"`
					Data            string `json:"data"`
				} `json:"value"`
			} `json:"parameter"`
		} `json:"contract"`
	} `json:"raw_data"`
}

// CurrentHeight returns the chain tip height.
func (a *Adapter) CurrentHeight(ctx context.Context) (int64, error) {
	var b block
	if err := a.post(ctx, "/wallet/getnowblock", struct{}{}, &b); err != nil {
		return 0, err
	}
	return b.BlockHeader.RawData.Number, nil
}

// ScanAddress walks blocks fromHeight through toHeight inclusive and
// collects successful transfers into address, ascending by height then
// position in block.
func (a *Adapter) ScanAddress(ctx context.Context, address, token string, fromHeight, toHeight int64) ([]domain.IncomingTransfer, error) {
	targetHex, err := addressToHex(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address %s: %w", address, err)
	}

	var contractHex string
	if token != "" && token != "trx" {
		contract, ok := a.tokens[token]
		if !ok {
			return nil, fmt.Errorf("unknown token %s on %s", token, a.chain)
		}
		if contractHex, err = addressToHex(contract); err != nil {
			return nil, err
		}
	}

	var transfers []domain.IncomingTransfer
	for height := fromHeight; height <= toHeight; height++ {
		var b block
		if err := a.post(ctx, "/wallet/getblockbynum", map[string]int64{"num": height}, &b); err != nil {
			return nil, err
		}
		for idx, tx := range b.Transactions {
			if len(tx.Ret) == 0 || tx.Ret[0].ContractRet != "SUCCESS" || len(tx.RawData.Contract) == 0 {
				continue
			}
			c := tx.RawData.Contract[0]

			if contractHex == "" {
				if c.Type != "TransferContract" || !strings.EqualFold(c.Parameter.Value.ToAddress, targetHex) {
					continue
				}
				transfers = append(transfers, domain.IncomingTransfer{
					TxHash:      tx.TxID,
					From:        hexToAddress(c.Parameter.Value.OwnerAddress),
					To:          address,
					Token:       token,
					Amount:      big.NewInt(c.Parameter.Value.Amount),
					BlockHeight: height,
					LogIndex:    uint(idx),
				})
				continue
			}

			if c.Type != "TriggerSmartContract" || !strings.EqualFold(c.Parameter.Value.ContractAddress, contractHex) {
				continue
			}
			to, amount, ok := decodeTransferCall(c.Parameter.Value.Data)
			if !ok || !strings.EqualFold(to, targetHex) {
				continue
			}
			transfers = append(transfers, domain.IncomingTransfer{
				Chain:       a.chain,
				TxHash:      tx.TxID,
				From:        hexToAddress(c.Parameter.Value.OwnerAddress),
				To:          address,
				Token:       token,
				Amount:      amount,
				BlockHeight: height,
				LogIndex:    uint(idx),
			})
		}
	}
	return transfers, nil
}

// Balance returns the TRC-20 balance of address in base units.
func (a *Adapter) Balance(ctx context.Context, address, token string) (*big.Int, error) {
	contract, ok := a.tokens[token]
	if !ok {
		return nil, fmt.Errorf("unknown token %s on %s", token, a.chain)
	}
	ownerHex, err := addressToHex(address)
	if err != nil {
		return nil, err
	}
	contractHex, err := addressToHex(contract)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"owner_address":     ownerHex,
		"contract_address":  contractHex,
		"function_selector": "balanceOf(address)",
		"parameter":         padAddressParam(ownerHex),
	}
	var out struct {
		ConstantResult []string `json:"constant_result"`
	}
	if err := a.post(ctx, "/wallet/triggerconstantcontract", body, &out); err != nil {
		return nil, err
	}
	if len(out.ConstantResult) == 0 {
		return nil, fmt.Errorf("empty balanceOf result for %s", address)
	}
	raw, err := hex.DecodeString(out.ConstantResult[0])
	if err != nil {
		return nil, fmt.Errorf("decode balanceOf result: %w", err)
	}
	return new(big.Int).SetBytes(raw), nil
}

// NativeBalance returns the TRX balance of address in sun.
func (a *Adapter) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	ownerHex, err := addressToHex(address)
	if err != nil {
		return nil, err
	}
	var out struct {
		Balance int64 `json:"balance"`
	}
	if err := a.post(ctx, "/wallet/getaccount", map[string]string{"address": ownerHex}, &out); err != nil {
		return nil, err
	}
	return big.NewInt(out.Balance), nil
}

// SignTransfer asks the node to build the transfer, then signs its raw data
// hash with the given key. The result is the signed transaction JSON, fed
// unchanged to Broadcast, plus the transaction id it will carry.
func (a *Adapter) SignTransfer(ctx context.Context, req ports.TransferRequest, privateKey []byte) ([]byte, string, error) {
	key, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, "", fmt.Errorf("parse private key: %w", err)
	}
	ownerHex, err := addressToHex(req.From)
	if err != nil {
		return nil, "", fmt.Errorf("invalid from address: %w", err)
	}
	toHex, err := addressToHex(req.To)
	if err != nil {
		return nil, "", fmt.Errorf("invalid to address: %w", err)
	}

	var tx map[string]json.RawMessage
	if req.Token == "" || req.Token == "trx" {
		body := map[string]any{
			"owner_address": ownerHex,
			"to_address":    toHex,
			"amount":        req.Amount.Int64(),
		}
		if err := a.post(ctx, "/wallet/createtransaction", body, &tx); err != nil {
			return nil, "", err
		}
	} else {
		contract, ok := a.tokens[req.Token]
		if !ok {
			return nil, "", fmt.Errorf("unknown token %s on %s", req.Token, a.chain)
		}
		contractHex, err := addressToHex(contract)
		if err != nil {
			return nil, "", err
		}
		body := map[string]any{
			"owner_address":     ownerHex,
			"contract_address":  contractHex,
			"function_selector": "transfer(address,uint256)",
			"parameter":         padAddressParam(toHex) + padAmountParam(req.Amount),
			"fee_limit":         a.feeLimit,
		}
		var out struct {
			Transaction map[string]json.RawMessage `json:"transaction"`
		}
		if err := a.post(ctx, "/wallet/triggersmartcontract", body, &out); err != nil {
			return nil, "", err
		}
		tx = out.Transaction
	}
	if tx == nil || tx["raw_data_hex"] == nil {
		return nil, "", fmt.Errorf("node returned no transaction to sign")
	}

	var rawDataHex string
	if err := json.Unmarshal(tx["raw_data_hex"], &rawDataHex); err != nil {
		return nil, "", fmt.Errorf("decode raw_data_hex: %w", err)
	}
	rawData, err := hex.DecodeString(rawDataHex)
	if err != nil {
		return nil, "", fmt.Errorf("decode raw_data_hex: %w", err)
	}

	// TRON signs the SHA-256 of the serialized raw data, which is also the
	// transaction id.
	digest := sha256.Sum256(rawData)
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return nil, "", fmt.Errorf("sign transaction: %w", err)
	}

	sigJSON, err := json.Marshal([]string{hex.EncodeToString(sig)})
	if err != nil {
		return nil, "", fmt.Errorf("marshal signature: %w", err)
	}
	tx["signature"] = sigJSON
	signed, err := json.Marshal(tx)
	if err != nil {
		return nil, "", fmt.Errorf("marshal transaction: %w", err)
	}
	return signed, hex.EncodeToString(digest[:]), nil
}

// Broadcast submits a signed transaction and returns its id.
func (a *Adapter) Broadcast(ctx context.Context, signedTx []byte) (string, error) {
	var tx map[string]json.RawMessage
	if err := json.Unmarshal(signedTx, &tx); err != nil {
		return "", fmt.Errorf("decode signed transaction: %w", err)
	}
	var txID string
	if tx["txID"] != nil {
		if err := json.Unmarshal(tx["txID"], &txID); err != nil {
			return "", fmt.Errorf("decode txID: %w", err)
		}
	}

	var out struct {
		Result  bool   `json:"result"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := a.post(ctx, "/wallet/broadcasttransaction", tx, &out); err != nil {
		return "", err
	}
	if !out.Result {
		detail := out.Code
		if decoded, err := hex.DecodeString(out.Message); err == nil && len(decoded) > 0 {
			detail = out.Code + ": " + string(decoded)
		}
		return "", &ports.BroadcastRejectedError{Chain: a.chain, Detail: detail}
	}
	a.log.Info().Str("tx_hash", txID).Msg("transaction broadcast")
	return txID, nil
}

// EstimateFee returns the configured fee limit for token transfers. Native
// transfers ride on bandwidth and cost nothing when the hot wallet has
// enough staked.
func (a *Adapter) EstimateFee(_ context.Context, token string) (*big.Int, error) {
	if token == "" || token == "trx" {
		return big.NewInt(0), nil
	}
	return big.NewInt(a.feeLimit), nil
}

// TransactionConfirmations returns the confirmation depth of txHash.
func (a *Adapter) TransactionConfirmations(ctx context.Context, txHash string) (int64, error) {
	var info struct {
		ID          string `json:"id"`
		BlockNumber int64  `json:"blockNumber"`
	}
	if err := a.post(ctx, "/wallet/gettransactioninfobyid", map[string]string{"value": txHash}, &info); err != nil {
		return 0, err
	}
	if info.ID == "" || info.BlockNumber == 0 {
		return 0, ports.ErrTxNotFound
	}
	height, err := a.CurrentHeight(ctx)
	if err != nil {
		return 0, err
	}
	confs := height - info.BlockNumber + 1
	if confs < 0 {
		confs = 0
	}
	return confs, nil
}

// RequiredConfirmations is the configured finality threshold.
func (a *Adapter) RequiredConfirmations() int64 {
	return a.requiredConfs
}

// ValidateAddress reports whether address is a well formed base58check
// TRON address.
func (a *Adapter) ValidateAddress(address string) bool {
	_, err := addressToHex(address)
	return err == nil
}

// GenerateDepositKey creates a fresh secp256k1 keypair with a TRON address.
func (a *Adapter) GenerateDepositKey() (string, []byte, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return "", nil, fmt.Errorf("generate key: %w", err)
	}
	eth := crypto.PubkeyToAddress(key.PublicKey)
	payload := append([]byte{addressPrefix}, eth.Bytes()...)
	return b58CheckEncode(payload), crypto.FromECDSA(key), nil
}

// addressToHex converts a base58check TRON address to its 21-byte hex form.
func addressToHex(address string) (string, error) {
	payload, err := b58CheckDecode(address)
	if err != nil {
		return "", err
	}
	if len(payload) != 21 || payload[0] != addressPrefix {
		return "", fmt.Errorf("malformed tron address")
	}
	return hex.EncodeToString(payload), nil
}

// hexToAddress converts a 21-byte hex address back to base58check. Invalid
// input is passed through untouched so scan rows stay inspectable.
func hexToAddress(hexAddr string) string {
	raw, err := hex.DecodeString(hexAddr)
	if err != nil || len(raw) != 21 {
		return hexAddr
	}
	return b58CheckEncode(raw)
}

// decodeTransferCall parses transfer(address,uint256) calldata, returning
// the 21-byte hex recipient and the amount.
func decodeTransferCall(data string) (string, *big.Int, bool) {
	if !strings.HasPrefix(strings.ToLower(data), transferSelector) {
		return "", nil, false
	}
	raw, err := hex.DecodeString(data[len(transferSelector):])
	if err != nil || len(raw) < 64 {
		return "", nil, false
	}
	to := append([]byte{addressPrefix}, raw[12:32]...)
	amount := new(big.Int).SetBytes(raw[32:64])
	return hex.EncodeToString(to), amount, true
}

// padAddressParam ABI-encodes a 21-byte hex address as one 32-byte word.
func padAddressParam(hexAddr string) string {
	raw, _ := hex.DecodeString(hexAddr)
	return hex.EncodeToString(common.LeftPadBytes(raw, 32))
}

// padAmountParam ABI-encodes an amount as one 32-byte word.
func padAmountParam(amount *big.Int) string {
	return hex.EncodeToString(common.LeftPadBytes(amount.Bytes(), 32))
}
