package near

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const findEthProofMethod = "proof_findEthProof"

// ProofClient fetches borsh encoded Ethereum inclusion proofs from a proof
// service. The byte layout is defined by the light client and passed through
// untouched.
type ProofClient struct {
	rpc *rpc.Client
}

// DialProofService connects to the proof service at url.
func DialProofService(ctx context.Context, url string) (*ProofClient, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to proof service: %w", err)
	}
	return &ProofClient{rpc: c}, nil
}

// Close closes the RPC connection.
func (p *ProofClient) Close() {
	p.rpc.Close()
}

// FindEthProof returns the proof that txHash emitted eventName from contract.
func (p *ProofClient) FindEthProof(ctx context.Context, eventName, txHash, contract string) ([]byte, error) {
	var proof hexutil.Bytes
	if err := p.rpc.CallContext(ctx, &proof, findEthProofMethod, eventName, txHash, contract); err != nil {
		return nil, fmt.Errorf("failed to find %s proof for %s: %w", eventName, txHash, err)
	}
	if len(proof) == 0 {
		return nil, fmt.Errorf("empty %s proof for %s", eventName, txHash)
	}
	return proof, nil
}
