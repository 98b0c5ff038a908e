package contracts

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// EthCustodianABI is the subset of the ETH custodian ABI used by the transfer flow.
const EthCustodianABI = `[
	{"inputs":[{"internalType":"string","name":"nearRecipientAccountId","type":"string"},{"internalType":"uint256","name":"fee","type":"uint256"}],"name":"depositToNear","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"internalType":"string","name":"ethRecipientOnNear","type":"string"},{"internalType":"uint256","name":"fee","type":"uint256"}],"name":"depositToEVM","outputs":[],"stateMutability":"payable","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"internalType":"address","name":"sender","type":"address"},{"indexed":false,"internalType":"string","name":"recipient","type":"string"},{"indexed":false,"internalType":"uint256","name":"amount","type":"uint256"},{"indexed":false,"internalType":"uint256","name":"fee","type":"uint256"}],"name":"Deposited","type":"event"}
]`

// DepositedEventName is the custodian event emitted by a successful lock.
const DepositedEventName = "Deposited"

// ParseEthCustodianABI parses EthCustodianABI.
func ParseEthCustodianABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(EthCustodianABI))
}

// EthCustodian is a binding around the ETH custodian contract.
type EthCustodian struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
}

// NewEthCustodian binds the custodian deployed at address.
func NewEthCustodian(address common.Address, backend bind.ContractBackend) (*EthCustodian, error) {
	parsed, err := ParseEthCustodianABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse custodian ABI: %w", err)
	}
	return &EthCustodian{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

// Address returns the bound contract address.
func (c *EthCustodian) Address() common.Address { return c.address }

// ABI returns the parsed contract ABI.
func (c *EthCustodian) ABI() abi.ABI { return c.abi }

// DepositToNear locks opts.Value wei for nearRecipient.
func (c *EthCustodian) DepositToNear(opts *bind.TransactOpts, nearRecipient string, fee *big.Int) (*types.Transaction, error) {
	return c.contract.Transact(opts, "depositToNear", nearRecipient, fee)
}
