package horizonclient

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	. "github.com/alexdcox/stellar-go"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// NewClient returns a Horizon client for the given network, using the
// network's default Horizon instance.
func NewClient(network Network) (client *Client, err error) {
	params, err := network.Params()
	if err != nil {
		return
	}
	client = &Client{
		HorizonURL: params.HorizonURL,
		Network:    network,
	}
	return
}

type Client struct {
	HorizonURL string
	Network    Network
}

func (c *Client) req(method string, path string, body io.Reader) (out []byte, err error) {
	req, err2 := http.NewRequest(method, c.HorizonURL+path, body)
	if err2 != nil {
		err = errors.WithStack(err2)
		return
	}

	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	rsp, err := http.DefaultClient.Do(req)
	if err != nil {
		err = errors.WithStack(err)
		return
	}
	defer func() {
		_ = rsp.Body.Close()
	}()

	out, err = io.ReadAll(rsp.Body)
	if err != nil {
		err = errors.WithStack(err)
		return
	}

	if rsp.Status[0] != '2' {
		detail := gjson.GetBytes(out, "detail").String()
		resultCodes := gjson.GetBytes(out, "extras.result_codes").Raw
		err = errors.Wrapf(ErrHorizonFailed,
			"response code %d: %s %s", rsp.StatusCode, detail, resultCodes)
		return
	}

	return
}

type Account struct {
	AccountID string
	Sequence  int64
}

// GetAccount fetches an account's current state, primarily its sequence
// number for transaction building.
func (c *Client) GetAccount(accountID string) (out *Account, err error) {
	body, err := c.req(http.MethodGet, fmt.Sprintf("/accounts/%s", accountID), nil)
	if err != nil {
		return
	}

	sequence, err := strconv.ParseInt(gjson.GetBytes(body, "sequence").String(), 10, 64)
	if err != nil {
		err = errors.Wrapf(err, "unable to parse account sequence from body: %s", string(body))
		return
	}

	out = &Account{
		AccountID: gjson.GetBytes(body, "account_id").String(),
		Sequence:  sequence,
	}
	return
}

type SubmitTransactionOut struct {
	Hash   string
	Ledger int64
}

// SubmitTransaction posts a signed envelope for inclusion in the ledger.
func (c *Client) SubmitTransaction(env TransactionEnvelope) (out *SubmitTransactionOut, err error) {
	encoded, err := env.ToBase64()
	if err != nil {
		return
	}

	form := url.Values{"tx": {encoded}}
	body, err := c.req(http.MethodPost, "/transactions", strings.NewReader(form.Encode()))
	if err != nil {
		return
	}

	out = &SubmitTransactionOut{
		Hash:   gjson.GetBytes(body, "hash").String(),
		Ledger: gjson.GetBytes(body, "ledger").Int(),
	}
	return
}

// FundTestAccount asks the network's friendbot to create and fund an
// account. Only test networks run a friendbot.
func (c *Client) FundTestAccount(accountID string) (err error) {
	params, err := c.Network.Params()
	if err != nil {
		return
	}
	if params.FriendbotURL == "" {
		err = errors.Errorf("network %s has no friendbot", c.Network)
		return
	}

	rsp, err := http.Get(params.FriendbotURL + "?addr=" + url.QueryEscape(accountID))
	if err != nil {
		err = errors.WithStack(err)
		return
	}
	defer func() {
		_ = rsp.Body.Close()
	}()

	if rsp.Status[0] != '2' {
		body, _ := io.ReadAll(rsp.Body)
		err = errors.Wrapf(ErrHorizonFailed, "friendbot response code %d: %s", rsp.StatusCode, string(body))
	}
	return
}
