package stellar

import (
	"crypto/sha256"

	"github.com/pkg/errors"
)

func init() {
	MainNetParams.Name = NetworkMainNet
	MainNetParams.Passphrase = "Public Global Stellar Network ; September 2015"
	MainNetParams.HorizonURL = "https://horizon.stellar.org"

	TestNetParams.Name = NetworkTestNet
	TestNetParams.Passphrase = "Test SDF Network ; September 2015"
	TestNetParams.HorizonURL = "https://horizon-testnet.stellar.org"
	TestNetParams.FriendbotURL = "https://friendbot.stellar.org"

	StandaloneParams.Name = NetworkStandalone
	StandaloneParams.Passphrase = "Standalone Network ; February 2017"
	StandaloneParams.HorizonURL = "http://localhost:8000"
	StandaloneParams.FriendbotURL = "http://localhost:8000/friendbot"
}

type NetworkParams struct {
	Name         Network
	Passphrase   string
	HorizonURL   string
	FriendbotURL string
}

var MainNetParams = NetworkParams{}
var TestNetParams = NetworkParams{}
var StandaloneParams = NetworkParams{}

const (
	NetworkMainNet    Network = "mainnet"
	NetworkTestNet    Network = "testnet"
	NetworkStandalone Network = "standalone"
)

type Network string

func (n Network) Valid() bool {
	return n == NetworkMainNet || n == NetworkTestNet || n == NetworkStandalone
}

func (n Network) Validate() (err error) {
	if !n.Valid() {
		err = errors.Errorf("invalid network: '%s'", n)
	}
	return
}

func (n Network) Params() (params *NetworkParams, err error) {
	if err = n.Validate(); err != nil {
		return
	}

	switch n {
	case NetworkMainNet:
		return &MainNetParams, nil
	case NetworkTestNet:
		return &TestNetParams, nil
	case NetworkStandalone:
		return &StandaloneParams, nil
	}

	return
}

// ID returns the network identifier hash: the SHA-256 of the network
// passphrase. Signatures embed this hash to bind themselves to one network
// instance.
func (n Network) ID() (id [32]byte, err error) {
	params, err := n.Params()
	if err != nil {
		return
	}
	id = sha256.Sum256([]byte(params.Passphrase))
	return
}
