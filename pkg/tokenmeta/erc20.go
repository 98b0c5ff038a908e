package tokenmeta

import (
	"context"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/chainsafe/near-eth-transfer/pkg/ethereum/contracts"
)

// ERC20Reader reads token views through an Ethereum node.
type ERC20Reader struct {
	caller bind.ContractCaller
}

var _ Token = (*ERC20Reader)(nil)

// NewERC20Reader returns a Token backed by caller, usually an ethclient.
func NewERC20Reader(caller bind.ContractCaller) *ERC20Reader {
	return &ERC20Reader{caller: caller}
}

func (r *ERC20Reader) bind(token common.Address) (*contracts.ERC20Caller, error) {
	c, err := contracts.NewERC20Caller(token, r.caller)
	if err != nil {
		return nil, fmt.Errorf("failed to bind token %s: %w", token.Hex(), err)
	}
	return c, nil
}

func (r *ERC20Reader) Name(ctx context.Context, token common.Address) (string, error) {
	c, err := r.bind(token)
	if err != nil {
		return "", err
	}
	return c.Name(&bind.CallOpts{Context: ctx})
}

func (r *ERC20Reader) Symbol(ctx context.Context, token common.Address) (string, error) {
	c, err := r.bind(token)
	if err != nil {
		return "", err
	}
	return c.Symbol(&bind.CallOpts{Context: ctx})
}

func (r *ERC20Reader) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	c, err := r.bind(token)
	if err != nil {
		return 0, err
	}
	return c.Decimals(&bind.CallOpts{Context: ctx})
}

func (r *ERC20Reader) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	c, err := r.bind(token)
	if err != nil {
		return nil, err
	}
	return c.BalanceOf(&bind.CallOpts{Context: ctx}, account)
}

// HTTPIconProber checks icons with a HEAD request.
type HTTPIconProber struct {
	client *http.Client
}

// NewHTTPIconProber returns a prober using client, or http.DefaultClient if nil.
func NewHTTPIconProber(client *http.Client) *HTTPIconProber {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPIconProber{client: client}
}

func (p *HTTPIconProber) Exists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
