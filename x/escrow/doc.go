/*
Package escrow implements a trustless two party token swap.

An initializer locks a funded temporary token account under a derived
module authority and publishes an escrow record naming the expected
counter payment. Any taker that pays exactly the expected amount
receives the locked tokens in the same transaction. Until a taker shows
up the initializer can cancel and take the locked tokens back.

No keypair exists for the derived authority. It is computed from the
program identity with AuthorityCondition, so only this module can move
the locked funds.
*/
package escrow
