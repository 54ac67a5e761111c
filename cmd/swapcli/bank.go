package main

import (
	"fmt"

	flags "github.com/jessevdk/go-flags"

	"github.com/ledgernet/ledger/crypto"
	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/store/ldb"
	"github.com/ledgernet/ledger/x/token"
)

func registerBankCommands(parser *flags.Parser) {
	addCommand(parser, "setup",
		"Initialize the ledger configuration",
		"Store the token module configuration, most notably the minimum native balance an account must deposit to be rent exempt.",
		&setupCmd{})
	addCommand(parser, "create-account",
		"Create a token account",
		"Create a token account controlled by the given authority. Without an explicit address a fresh one is generated.",
		&createAccountCmd{})
	addCommand(parser, "issue",
		"Credit tokens to an account",
		"Credit freshly issued tokens to an existing token account.",
		&issueCmd{})
	addCommand(parser, "deposit",
		"Credit native units to an address",
		"Credit native units to an address, e.g. to make a future record account rent exempt.",
		&depositCmd{})
	addCommand(parser, "balance",
		"Show the balances of an address",
		"Show the token account and the native deposit held under an address.",
		&balanceCmd{})
}

func openDB() (*ldb.CommitStore, error) {
	db, err := ldb.NewCommitStore(opts.DB)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %q", opts.DB)
	}
	return db, nil
}

type setupCmd struct {
	MinBalance uint64 `long:"min-balance" default:"1000" description:"Minimum rent exempt native balance"`
}

func (c *setupCmd) Execute([]string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	conf := token.Configuration{MinimumBalance: c.MinBalance}
	if err := token.SaveConfiguration(db, &conf); err != nil {
		return err
	}
	log.Info().Uint64("min_balance", c.MinBalance).Msg("configuration stored")
	return nil
}

type createAccountCmd struct {
	Account   addressFlag `long:"account" description:"Account address, generated when omitted"`
	Authority addressFlag `long:"authority" required:"true" description:"Controlling authority address"`
	Asset     string      `long:"asset" required:"true" description:"Asset ticker, e.g. BTC"`
	Balance   uint64      `long:"amount" description:"Initial balance"`
}

func (c *createAccountCmd) Execute([]string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	acct := c.Account.Address
	if acct == nil {
		acct = crypto.GenPrivKeyEd25519().PublicKey().Address()
	}
	ctrl := token.NewController()
	if err := ctrl.CreateAccount(db, acct, c.Authority.Address, token.Asset(c.Asset), c.Balance); err != nil {
		return err
	}
	log.Info().
		Str("asset", c.Asset).
		Uint64("amount", c.Balance).
		Msg("account created")
	fmt.Println(encodeAddress(acct))
	return nil
}

type issueCmd struct {
	Address addressFlag `long:"address" required:"true" description:"Token account to credit"`
	Amount  uint64      `long:"amount" required:"true" description:"Tokens to credit"`
}

func (c *issueCmd) Execute([]string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := token.NewController().IssueTokens(db, c.Address.Address, c.Amount); err != nil {
		return err
	}
	log.Info().Uint64("amount", c.Amount).Msg("tokens issued")
	return nil
}

type depositCmd struct {
	Address addressFlag `long:"address" required:"true" description:"Address to credit"`
	Amount  uint64      `long:"amount" required:"true" description:"Native units to credit"`
}

func (c *depositCmd) Execute([]string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := token.NewController().DepositNative(db, c.Address.Address, c.Amount); err != nil {
		return err
	}
	log.Info().Uint64("amount", c.Amount).Msg("deposit credited")
	return nil
}

type balanceCmd struct {
	Address addressFlag `long:"address" required:"true" description:"Address to inspect"`
}

func (c *balanceCmd) Execute([]string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctrl := token.NewController()
	native, err := ctrl.NativeBalance(db, c.Address.Address)
	if err != nil {
		return err
	}
	fmt.Printf("native\t%d\n", native)

	switch acct, err := ctrl.GetAccount(db, c.Address.Address); {
	case err == nil:
		fmt.Printf("%s\t%d\tauthority %s\n", acct.Asset, acct.Balance, encodeAddress(acct.Authority))
	case token.ErrNoAccount.Is(err):
		// No token account under this address.
	default:
		return err
	}
	return nil
}
