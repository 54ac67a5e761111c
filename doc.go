/*
Package ledger defines the common contracts that tie the module together:
addresses and keyless conditions, the key-value store interfaces, and the
message/transaction/handler types used to process state transitions.

Extensions (under x/) implement the actual state machines. Infrastructure
(store, orm, app) implements storage and atomic dispatch. Nothing in this
package mutates state.
*/
package ledger
