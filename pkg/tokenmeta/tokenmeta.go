// Package tokenmeta resolves display metadata of ERC-20 tokens. Name,
// decimals and icon never change for a deployed token and are memoised per
// address for the life of the process; balances are always read fresh.
package tokenmeta

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultIconBaseURL serves token logos keyed by checksum address.
const DefaultIconBaseURL = "https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/ethereum/assets"

// ErrInvalidAddress is returned for a malformed token or account address.
var ErrInvalidAddress = errors.New("invalid address")

// Metadata describes an ERC-20 token. Balance is nil when no account was given.
type Metadata struct {
	Address  string   `json:"address"`
	Balance  *big.Int `json:"balance"`
	Decimals uint8    `json:"decimals"`
	Icon     string   `json:"icon,omitempty"`
	Name     string   `json:"name"`
}

// Token reads ERC-20 views.
type Token interface {
	Name(ctx context.Context, token common.Address) (string, error)
	Symbol(ctx context.Context, token common.Address) (string, error)
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error)
}

// IconProber reports whether an icon is served at url.
type IconProber interface {
	Exists(ctx context.Context, url string) bool
}

// Cache is a concurrency safe metadata resolver.
type Cache struct {
	tokens      Token
	icons       IconProber
	iconBaseURL string
	logger      *zap.Logger

	decimals *xsync.MapOf[common.Address, uint8]
	names    *xsync.MapOf[common.Address, string]
	iconURLs *xsync.MapOf[common.Address, string]
}

// New creates a metadata cache reading tokens through tokens.
func New(tokens Token, opts ...Option) *Cache {
	s := applyOptions(opts)
	return &Cache{
		tokens:      tokens,
		icons:       s.icons,
		iconBaseURL: strings.TrimSuffix(s.iconBaseURL, "/"),
		logger:      s.logger,
		decimals:    xsync.NewMapOf[common.Address, uint8](),
		names:       xsync.NewMapOf[common.Address, string](),
		iconURLs:    xsync.NewMapOf[common.Address, string](),
	}
}

// Get returns the metadata of token, with the balance of user when user is
// not empty.
func (c *Cache) Get(ctx context.Context, token, user string) (*Metadata, error) {
	addr, err := parseAddress(token)
	if err != nil {
		return nil, err
	}
	md := &Metadata{Address: token}

	g, gctx := errgroup.WithContext(ctx)
	if user != "" {
		account, err := parseAddress(user)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			balance, err := c.tokens.BalanceOf(gctx, addr, account)
			if err != nil {
				return fmt.Errorf("failed to get balance: %w", err)
			}
			md.Balance = balance
			return nil
		})
	}
	g.Go(func() error {
		decimals, err := c.Decimals(gctx, addr)
		md.Decimals = decimals
		return err
	})
	g.Go(func() error {
		name, err := c.Name(gctx, addr)
		md.Name = name
		return err
	})
	g.Go(func() error {
		md.Icon = c.Icon(gctx, addr)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return md, nil
}

// Decimals returns the precision of token.
func (c *Cache) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	if d, ok := c.decimals.Load(token); ok {
		return d, nil
	}
	d, err := c.tokens.Decimals(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("failed to get decimals of %s: %w", token.Hex(), err)
	}
	c.decimals.Store(token, d)
	return d, nil
}

// Name returns the token name, falling back to its symbol for tokens that do
// not implement name().
func (c *Cache) Name(ctx context.Context, token common.Address) (string, error) {
	if n, ok := c.names.Load(token); ok {
		return n, nil
	}
	name, err := c.tokens.Name(ctx, token)
	if err != nil || name == "" {
		c.logger.Debug("Token has no name, using symbol",
			zap.String("token", token.Hex()),
			zap.Error(err))
		name, err = c.tokens.Symbol(ctx, token)
		if err != nil {
			return "", fmt.Errorf("failed to get name of %s: %w", token.Hex(), err)
		}
	}
	c.names.Store(token, name)
	return name, nil
}

// Icon returns the logo URL of token, or "" if none is published. A missing
// icon is memoised too.
func (c *Cache) Icon(ctx context.Context, token common.Address) string {
	if u, ok := c.iconURLs.Load(token); ok {
		return u
	}
	if c.icons == nil {
		return ""
	}
	// the icon repository is keyed by checksum address
	url := fmt.Sprintf("%s/%s/logo.png", c.iconBaseURL, token.Hex())
	if !c.icons.Exists(ctx, url) {
		url = ""
	}
	if ctx.Err() == nil {
		c.iconURLs.Store(token, url)
	}
	return url
}

// Balance returns the balance of account; it is never cached.
func (c *Cache) Balance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	return c.tokens.BalanceOf(ctx, token, account)
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}
