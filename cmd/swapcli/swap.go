package main

import (
	"context"
	"encoding/hex"
	"fmt"

	flags "github.com/jessevdk/go-flags"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/app"
	"github.com/ledgernet/ledger/crypto"
	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/x/escrow"
	"github.com/ledgernet/ledger/x/token"
)

func registerSwapCommands(parser *flags.Parser) {
	addCommand(parser, "authority",
		"Print the derived escrow authority",
		"Print the keyless authority address derived from the program label. Anyone can recompute it to verify an account is protocol controlled.",
		&authorityCmd{})
	addCommand(parser, "init-escrow",
		"Open a new escrow",
		"Lock the temp account under the derived authority and record the expected counter payment.",
		&initEscrowCmd{})
	addCommand(parser, "exchange",
		"Complete an escrow",
		"Pay the recorded amount and receive the locked funds in one atomic operation.",
		&exchangeCmd{})
	addCommand(parser, "cancel",
		"Cancel an escrow",
		"Refund the locked funds to the initializer and release the record.",
		&cancelCmd{})
	addCommand(parser, "show-escrow",
		"Show an escrow record",
		"Print the stored escrow record of the given record account.",
		&showEscrowCmd{})
	addCommand(parser, "decode",
		"Decode an instruction buffer",
		"Decode a hex encoded instruction buffer into its tag and amount.",
		&decodeCmd{})
}

func programAddress() ledger.Address {
	return escrow.ProgramCondition(opts.Program).Address()
}

// submit runs a single transaction through the dispatcher, committing on
// success and discarding every effect on failure.
func submit(key crypto.Signer, msg ledger.Msg) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	auth := authFor(key)
	router := app.NewRouter()
	escrow.RegisterRoutes(router, auth, token.NewController(), programAddress())

	tx := &msgTx{msg: msg}
	res, err := app.NewDispatcher(router).Deliver(context.Background(), db, tx)
	if err != nil {
		return err
	}
	log.Info().Str("path", msg.Path()).Msg("delivered")
	fmt.Println(hex.EncodeToString(res.Data))
	return nil
}

// msgTx is the minimal transaction wrapper for locally submitted
// messages.
type msgTx struct {
	msg ledger.Msg
}

var _ ledger.Tx = (*msgTx)(nil)

func (tx *msgTx) GetMsg() (ledger.Msg, error) {
	return tx.msg, nil
}

func (tx *msgTx) Marshal() ([]byte, error) {
	return tx.msg.Marshal()
}

func (tx *msgTx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "local transactions are never decoded")
}

type authorityCmd struct{}

func (c *authorityCmd) Execute([]string) error {
	fmt.Println(encodeAddress(escrow.AuthorityCondition(programAddress()).Address()))
	return nil
}

type initEscrowCmd struct {
	Key       string      `short:"k" long:"key" required:"true" description:"Initializer private key file"`
	Temp      addressFlag `long:"temp" required:"true" description:"Funded temp account to lock"`
	Receiving addressFlag `long:"receiving" required:"true" description:"Account to receive the counter payment"`
	Record    addressFlag `long:"record" required:"true" description:"Rent exempt record account"`
	Amount    uint64      `long:"amount" required:"true" description:"Expected counter payment"`
}

func (c *initEscrowCmd) Execute([]string) error {
	key, err := loadKey(c.Key)
	if err != nil {
		return err
	}
	msg := &escrow.InitializeMsg{
		Amount:           c.Amount,
		Initializer:      ledger.AccountMeta{Address: key.PublicKey().Address(), Signer: true},
		TempAccount:      ledger.AccountMeta{Address: c.Temp.Address, Writable: true},
		ReceivingAccount: ledger.AccountMeta{Address: c.Receiving.Address},
		RecordAccount:    ledger.AccountMeta{Address: c.Record.Address, Writable: true},
		RentOracle:       ledger.AccountMeta{Address: token.RentCondition.Address()},
		TokenModule:      ledger.AccountMeta{Address: token.ModuleCondition.Address()},
	}
	return submit(key, msg)
}

type exchangeCmd struct {
	Key                  string      `short:"k" long:"key" required:"true" description:"Taker private key file"`
	Payment              addressFlag `long:"payment" required:"true" description:"Account the payment is taken from"`
	Receiving            addressFlag `long:"receiving" required:"true" description:"Account to receive the locked funds"`
	Initializer          addressFlag `long:"initializer" required:"true" description:"Initializer identity address"`
	Temp                 addressFlag `long:"temp" required:"true" description:"Locked temp account"`
	InitializerReceiving addressFlag `long:"initializer-receiving" required:"true" description:"Account the initializer is paid into"`
	Record               addressFlag `long:"record" required:"true" description:"Escrow record account"`
	Amount               uint64      `long:"amount" required:"true" description:"Offered payment, must equal the recorded amount"`
}

func (c *exchangeCmd) Execute([]string) error {
	key, err := loadKey(c.Key)
	if err != nil {
		return err
	}
	msg := &escrow.ExchangeMsg{
		Amount:               c.Amount,
		Taker:                ledger.AccountMeta{Address: key.PublicKey().Address(), Signer: true},
		PaymentAccount:       ledger.AccountMeta{Address: c.Payment.Address, Writable: true},
		TakerReceiving:       ledger.AccountMeta{Address: c.Receiving.Address, Writable: true},
		InitializerAccount:   ledger.AccountMeta{Address: c.Initializer.Address},
		TempAccount:          ledger.AccountMeta{Address: c.Temp.Address, Writable: true},
		InitializerReceiving: ledger.AccountMeta{Address: c.InitializerReceiving.Address, Writable: true},
		RecordAccount:        ledger.AccountMeta{Address: c.Record.Address, Writable: true},
		DepositRecipient:     ledger.AccountMeta{Address: c.Initializer.Address, Writable: true},
		TokenModule:          ledger.AccountMeta{Address: token.ModuleCondition.Address()},
		Authority:            ledger.AccountMeta{Address: escrow.AuthorityCondition(programAddress()).Address()},
	}
	return submit(key, msg)
}

type cancelCmd struct {
	Key    string      `short:"k" long:"key" required:"true" description:"Initializer private key file"`
	Temp   addressFlag `long:"temp" required:"true" description:"Locked temp account"`
	Refund addressFlag `long:"refund" required:"true" description:"Account to refund the locked funds to"`
	Record addressFlag `long:"record" required:"true" description:"Escrow record account"`
}

func (c *cancelCmd) Execute([]string) error {
	key, err := loadKey(c.Key)
	if err != nil {
		return err
	}
	msg := &escrow.CancelMsg{
		Initializer:   ledger.AccountMeta{Address: key.PublicKey().Address(), Signer: true},
		TempAccount:   ledger.AccountMeta{Address: c.Temp.Address, Writable: true},
		RefundAccount: ledger.AccountMeta{Address: c.Refund.Address, Writable: true},
		RecordAccount: ledger.AccountMeta{Address: c.Record.Address, Writable: true},
		TokenModule:   ledger.AccountMeta{Address: token.ModuleCondition.Address()},
		Authority:     ledger.AccountMeta{Address: escrow.AuthorityCondition(programAddress()).Address()},
	}
	return submit(key, msg)
}

type showEscrowCmd struct {
	Record addressFlag `long:"record" required:"true" description:"Escrow record account"`
}

func (c *showEscrowCmd) Execute([]string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var record escrow.Escrow
	if err := escrow.NewBucket().One(db, c.Record.Address, &record); err != nil {
		return err
	}
	fmt.Printf("initializer\t%s\n", encodeAddress(record.Initializer))
	fmt.Printf("temp account\t%s\n", encodeAddress(record.TempAccount))
	fmt.Printf("receiving\t%s\n", encodeAddress(record.ReceivingAccount))
	fmt.Printf("expected amount\t%d\n", record.ExpectedAmount)
	return nil
}

type decodeCmd struct {
	Args struct {
		Instruction string `positional-arg-name:"hex" required:"true" description:"Hex encoded instruction buffer"`
	} `positional-args:"true"`
}

func (c *decodeCmd) Execute([]string) error {
	raw, err := hex.DecodeString(c.Args.Instruction)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "hex: %s", err)
	}
	tag, amount, err := escrow.DecodeInstruction(raw)
	if err != nil {
		return err
	}
	switch tag {
	case escrow.TagInitialize:
		fmt.Printf("initialize\t%d\n", amount)
	case escrow.TagExchange:
		fmt.Printf("exchange\t%d\n", amount)
	case escrow.TagCancel:
		fmt.Println("cancel")
	}
	return nil
}
