/*
Package token implements the asset accounts the escrow operates on.

Every account is denominated in a single asset and carries an explicit
controlling authority, which may differ from the account address itself.
That separation is what lets a keyless derived condition take over an
account without any private key changing hands.

Next to the asset balances the package tracks native balances per
address. The native balance of an account is its storage deposit; closing
an account reclaims the deposit to a chosen recipient.

The Controller is the transfer primitive invoked by other extensions. It
trusts its caller to present the acting authority: handlers pass either a
signer address they have authenticated or a derived condition address
they are entitled to act as.
*/
package token
