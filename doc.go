/*
Package stellar facilitates interaction with the Stellar network, with the
intention of allowing contract invocations and transaction signing/broadcasting.

This software implements only the parts of the Stellar protocol that are
directly relevant to client-side transaction construction (the XDR codec,
the Soroban operation and authorization object model, and the signing
protocol built on top of them) rather than the entire Stellar protocol.
*/

package stellar
