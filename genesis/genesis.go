package genesis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/chiefstaker/chiefstaker/builtin/stakepool"
	"github.com/chiefstaker/chiefstaker/builtin/token"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/log"
	"github.com/chiefstaker/chiefstaker/rent"
	"github.com/chiefstaker/chiefstaker/runtime"
	"github.com/chiefstaker/chiefstaker/xenv"
)

var logger = log.WithContext("pkg", "genesis")

// Genesis is the initial ledger content.
type Genesis struct {
	Name     string    `yaml:"name"`
	Rent     rent.Rent `yaml:"rent"`
	Accounts []Account `yaml:"accounts"`
	Mints    []Mint    `yaml:"mints"`
	Pools    []Pool    `yaml:"pools"`
}

// Account is a funded wallet.
type Account struct {
	Address chief.Address `yaml:"address"`
	Balance uint64        `yaml:"balance"`
}

// Mint is a token mint with its initial holders.
type Mint struct {
	Address        chief.Address `yaml:"address"`
	Authority      chief.Address `yaml:"authority"`
	Decimals       uint8         `yaml:"decimals"`
	Extensions     []string      `yaml:"extensions,omitempty"`
	TransferFeeBps uint16        `yaml:"transferFeeBps,omitempty"`
	Holders        []Holder      `yaml:"holders,omitempty"`
}

// Holder receives Amount tokens in its associated token account.
type Holder struct {
	Owner  chief.Address `yaml:"owner"`
	Amount uint64        `yaml:"amount"`
}

// Pool is a staking pool created over one of the mints.
type Pool struct {
	Mint             chief.Address `yaml:"mint"`
	Authority        chief.Address `yaml:"authority"`
	MaturationPeriod uint64        `yaml:"maturationPeriod"`
}

// Parse decodes a genesis document. Unknown fields are rejected.
func Parse(r io.Reader) (*Genesis, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var gen Genesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Load reads the genesis file at path.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(bytes.NewReader(data))
}

// Validate checks the document is consistent before anything is applied.
func (g *Genesis) Validate() error {
	if g.Rent.LamportsPerByteYear == 0 || g.Rent.ExemptionThreshold == 0 {
		return errors.New("rent: lamportsPerByteYear and exemptionThreshold must be set")
	}
	funded := make(map[chief.Address]bool, len(g.Accounts))
	for _, a := range g.Accounts {
		if a.Address.IsZero() {
			return errors.New("account: address must be set")
		}
		if funded[a.Address] {
			return fmt.Errorf("account %v: listed twice", a.Address)
		}
		if a.Balance == 0 {
			return fmt.Errorf("account %v: balance must be a non-zero integer", a.Address)
		}
		funded[a.Address] = true
	}

	mints := make(map[chief.Address]bool, len(g.Mints))
	for _, m := range g.Mints {
		if mints[m.Address] {
			return fmt.Errorf("mint %v: listed twice", m.Address)
		}
		if !funded[m.Authority] {
			return fmt.Errorf("mint %v: authority %v pays for the mint and must be funded", m.Address, m.Authority)
		}
		for _, name := range m.Extensions {
			if _, ok := token.ParseExtension(name); !ok {
				return fmt.Errorf("mint %v: unknown extension %q", m.Address, name)
			}
		}
		if m.TransferFeeBps > 10_000 {
			return fmt.Errorf("mint %v: transfer fee above 10000 bps", m.Address)
		}
		mints[m.Address] = true
	}

	for _, p := range g.Pools {
		if !mints[p.Mint] {
			return fmt.Errorf("pool: mint %v not in genesis", p.Mint)
		}
		if !funded[p.Authority] {
			return fmt.Errorf("pool %v: authority %v must be funded", p.Mint, p.Authority)
		}
	}
	return nil
}

// ID identifies the genesis content.
func (g *Genesis) ID() (chief.Bytes32, error) {
	data, err := yaml.Marshal(g)
	if err != nil {
		return chief.Bytes32{}, errors.Wrap(err, "encode genesis")
	}
	return chief.Blake2b(data), nil
}

func (m *Mint) extensions() []token.Extension {
	exts := make([]token.Extension, 0, len(m.Extensions))
	for _, name := range m.Extensions {
		ext, _ := token.ParseExtension(name)
		exts = append(exts, ext)
	}
	return exts
}

// Apply writes the genesis content through rt as one operation.
func (g *Genesis) Apply(ctx context.Context, rt *runtime.Runtime) error {
	return rt.Execute(ctx, nil, func(env *xenv.Environment) error {
		st := env.State()
		for _, a := range g.Accounts {
			if err := st.SetBalance(a.Address, a.Balance); err != nil {
				return err
			}
		}

		for _, m := range g.Mints {
			signed := env.WithSigner(m.Authority).WithSigner(m.Address)
			if err := token.InitializeMint(signed, m.Authority, m.Address, &token.Mint{
				Authority:      m.Authority,
				Decimals:       m.Decimals,
				Extensions:     m.extensions(),
				TransferFeeBps: m.TransferFeeBps,
			}); err != nil {
				return errors.Wrapf(err, "mint %v", m.Address)
			}
			for _, h := range m.Holders {
				ata, err := token.CreateAssociatedAccount(signed, m.Authority, h.Owner, m.Address)
				if err != nil {
					return errors.Wrapf(err, "mint %v holder %v", m.Address, h.Owner)
				}
				if err := token.MintTo(signed, m.Address, ata, h.Amount); err != nil {
					return errors.Wrapf(err, "mint %v holder %v", m.Address, h.Owner)
				}
			}
		}

		for _, p := range g.Pools {
			sp := stakepool.New(env.WithSigner(p.Authority))
			addr, err := sp.InitializePool(p.Authority, p.Mint, p.MaturationPeriod)
			if err != nil {
				return errors.Wrapf(err, "pool of %v", p.Mint)
			}
			logger.Debug("genesis pool", "mint", p.Mint, "pool", addr)
		}

		logger.Info("genesis applied", "name", g.Name, "accounts", len(g.Accounts), "mints", len(g.Mints), "pools", len(g.Pools))
		return nil
	})
}
